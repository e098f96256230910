package model

import "google.golang.org/genai"

// FunctionCall represents a function invocation requested by the model.
type FunctionCall struct {
	ID   string         `json:"id,omitempty" bson:"id,omitempty"`
	Name string         `json:"name" bson:"name"`
	Args map[string]any `json:"args,omitempty" bson:"args,omitempty"`
}

// FunctionResponse represents the result of a function invocation.
type FunctionResponse struct {
	ID       string         `json:"id,omitempty" bson:"id,omitempty"`
	Name     string         `json:"name" bson:"name"`
	Response map[string]any `json:"response,omitempty" bson:"response,omitempty"`
}

// Blob is inline binary data such as an image or a PDF.
type Blob struct {
	MIMEType string `json:"mime_type" bson:"mime_type"`
	Data     []byte `json:"data" bson:"data"`
}

// FileData references a file stored outside the conversation.
type FileData struct {
	FileURI  string `json:"file_uri" bson:"file_uri"`
	MIMEType string `json:"mime_type,omitempty" bson:"mime_type,omitempty"`
}

// Part is a single piece of a conversation turn.
type Part struct {
	Text             string            `json:"text,omitempty" bson:"text,omitempty"`
	InlineData       *Blob             `json:"inline_data,omitempty" bson:"inline_data,omitempty"`
	FileData         *FileData         `json:"file_data,omitempty" bson:"file_data,omitempty"`
	FunctionCall     *FunctionCall     `json:"function_call,omitempty" bson:"function_call,omitempty"`
	FunctionResponse *FunctionResponse `json:"function_response,omitempty" bson:"function_response,omitempty"`
}

// Content is a single conversation turn, composed of one or more parts.
type Content struct {
	Parts []Part `json:"parts" bson:"parts"`
	Role  string `json:"role" bson:"role"`
}

// FromGenAI converts genai contents for persistence and API responses.
func FromGenAI(contents []*genai.Content) []Content {
	result := make([]Content, 0, len(contents))
	for _, c := range contents {
		if c == nil {
			continue
		}
		mc := Content{Role: c.Role, Parts: make([]Part, 0, len(c.Parts))}
		for _, p := range c.Parts {
			if p != nil {
				mc.Parts = append(mc.Parts, partFromGenAI(p))
			}
		}
		result = append(result, mc)
	}
	return result
}

func partFromGenAI(p *genai.Part) Part {
	mp := Part{Text: p.Text}
	if p.InlineData != nil {
		mp.InlineData = &Blob{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}
	}
	if p.FileData != nil {
		mp.FileData = &FileData{FileURI: p.FileData.FileURI, MIMEType: p.FileData.MIMEType}
	}
	if p.FunctionCall != nil {
		mp.FunctionCall = &FunctionCall{
			ID:   p.FunctionCall.ID,
			Name: p.FunctionCall.Name,
			Args: p.FunctionCall.Args,
		}
	}
	if p.FunctionResponse != nil {
		mp.FunctionResponse = &FunctionResponse{
			ID:       p.FunctionResponse.ID,
			Name:     p.FunctionResponse.Name,
			Response: p.FunctionResponse.Response,
		}
	}
	return mp
}

// ToGenAI converts stored contents back into chat history.
func ToGenAI(contents []Content) []*genai.Content {
	result := make([]*genai.Content, 0, len(contents))
	for _, c := range contents {
		gc := &genai.Content{Role: c.Role, Parts: make([]*genai.Part, 0, len(c.Parts))}
		for _, p := range c.Parts {
			gc.Parts = append(gc.Parts, p.toGenAI())
		}
		result = append(result, gc)
	}
	return result
}

func (p Part) toGenAI() *genai.Part {
	gp := &genai.Part{Text: p.Text}
	if p.InlineData != nil {
		gp.InlineData = &genai.Blob{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}
	}
	if p.FileData != nil {
		gp.FileData = &genai.FileData{FileURI: p.FileData.FileURI, MIMEType: p.FileData.MIMEType}
	}
	if p.FunctionCall != nil {
		gp.FunctionCall = &genai.FunctionCall{
			ID:   p.FunctionCall.ID,
			Name: p.FunctionCall.Name,
			Args: p.FunctionCall.Args,
		}
	}
	if p.FunctionResponse != nil {
		gp.FunctionResponse = &genai.FunctionResponse{
			ID:       p.FunctionResponse.ID,
			Name:     p.FunctionResponse.Name,
			Response: p.FunctionResponse.Response,
		}
	}
	return gp
}
