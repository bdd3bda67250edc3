package gemini

import "google.golang.org/genai"

var receiptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"date":          {Type: genai.TypeString},
		"amount":        {Type: genai.TypeNumber},
		"description":   {Type: genai.TypeString},
		"category":      {Type: genai.TypeString},
		"invoiceNumber": {Type: genai.TypeString},
		"dueDate":       {Type: genai.TypeString},
		"type":          {Type: genai.TypeString, Enum: []string{"income", "expense"}},
	},
	Required: []string{"amount", "description", "category"},
}

var anomalySchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"transactionId":   {Type: genai.TypeString},
			"severity":        {Type: genai.TypeString, Enum: []string{"low", "medium", "high"}},
			"reason":          {Type: genai.TypeString},
			"suggestedAction": {Type: genai.TypeString},
		},
	},
}
