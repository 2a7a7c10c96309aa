package common

// Raw records as decoded from a JSON-RPC response, before formatting.
type RawBlock = map[string]interface{}
type RawTransaction = map[string]interface{}
type RawReceipt = map[string]interface{}
