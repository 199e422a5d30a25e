package genai

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// FileSearch attaches the provider's retrieval tool, naming exactly the
// stores to ground on.
type FileSearch struct {
	FileSearchStoreNames []string `json:"fileSearchStoreNames"`
}

type Tool struct {
	FileSearch *FileSearch `json:"fileSearch,omitempty"`
}

type GenerateContentRequest struct {
	Contents          []Content `json:"contents"`
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
	Tools             []Tool    `json:"tools,omitempty"`
}

type RetrievedContext struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

type WebSource struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

type GroundingChunk struct {
	RetrievedContext *RetrievedContext `json:"retrievedContext,omitempty"`
	Web              *WebSource        `json:"web,omitempty"`
}

type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks,omitempty"`
}

type Candidate struct {
	Content           *Content           `json:"content,omitempty"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []*Candidate `json:"candidates,omitempty"`
}

// Text joins the primary candidate's parts. Every level of the response is
// optional; missing fields yield an empty string, never a panic.
func (r *GenerateContentResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	c := r.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var out string
	for _, p := range c.Content.Parts {
		out += p.Text
	}
	return out
}

// GroundingChunks returns the primary candidate's grounding chunks, empty
// when candidates, metadata or chunks are missing at any level.
func (r *GenerateContentResponse) GroundingChunks() []GroundingChunk {
	if r == nil || len(r.Candidates) == 0 {
		return nil
	}
	c := r.Candidates[0]
	if c == nil || c.GroundingMetadata == nil {
		return nil
	}
	return c.GroundingMetadata.GroundingChunks
}

type FileSearchStore struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

type ListFileSearchStoresResponse struct {
	FileSearchStores []FileSearchStore `json:"fileSearchStores,omitempty"`
}
