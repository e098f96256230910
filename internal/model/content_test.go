package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGenAIRoundTrip(t *testing.T) {
	in := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{
			{Text: "Summarize this report"},
			{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: []byte("%PDF-1.4")}},
			{FileData: &genai.FileData{FileURI: "gs://bucket/a.png", MIMEType: "image/png"}},
		}},
		{Role: genai.RoleModel, Parts: []*genai.Part{
			{FunctionCall: &genai.FunctionCall{ID: "c1", Name: "get_companies"}},
		}},
		{Role: genai.RoleUser, Parts: []*genai.Part{
			{FunctionResponse: &genai.FunctionResponse{ID: "c1", Name: "get_companies", Response: map[string]any{"result": "ok"}}},
		}},
	}

	stored := FromGenAI(in)
	require.Len(t, stored, 3)
	assert.Equal(t, "application/pdf", stored[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, "gs://bucket/a.png", stored[0].Parts[2].FileData.FileURI)

	assert.Equal(t, in, ToGenAI(stored))
}

func TestFromGenAI_SkipsNil(t *testing.T) {
	stored := FromGenAI([]*genai.Content{nil, {Role: "user", Parts: []*genai.Part{nil, {Text: "hi"}}}})
	require.Len(t, stored, 1)
	assert.Equal(t, []Part{{Text: "hi"}}, stored[0].Parts)
}

func TestPart_JSON(t *testing.T) {
	data, err := json.Marshal(Part{InlineData: &Blob{MIMEType: "image/png", Data: []byte{1, 2}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"inline_data":{"mime_type":"image/png","data":"AQI="}}`, string(data))
}
