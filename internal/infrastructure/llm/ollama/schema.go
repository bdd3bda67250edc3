package ollama

// Structured output schemas passed as the request "format".
var receiptSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"date":          map[string]any{"type": "string"},
		"amount":        map[string]any{"type": "number"},
		"description":   map[string]any{"type": "string"},
		"category":      map[string]any{"type": "string"},
		"invoiceNumber": map[string]any{"type": "string"},
		"dueDate":       map[string]any{"type": "string"},
		"type":          map[string]any{"type": "string", "enum": []string{"income", "expense"}},
	},
	"required": []string{"amount", "description", "category"},
}

var anomalySchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"transactionId":   map[string]any{"type": "string"},
			"severity":        map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
			"reason":          map[string]any{"type": "string"},
			"suggestedAction": map[string]any{"type": "string"},
		},
	},
}
