package dto

// GenerateBlogRequest is the wire shape of POST /generate_blog.
type GenerateBlogRequest struct {
	Topic     string `json:"input_text_field"`
	WordCount int    `json:"no_words"`
	Style     string `json:"blog_style"`
	Title     string `json:"title"`
	Image     string `json:"image,omitempty"`
}

type GenerateBlogResponse struct {
	GeneratedText string `json:"generated_text"`
}

// SummarizeRequest uses pointers so omitted bounds can take their defaults.
type SummarizeRequest struct {
	Content   string `json:"content"`
	MaxLength *int   `json:"max_length"`
	MinLength *int   `json:"min_length"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type WriterErrorResponse struct {
	Error string `json:"error"`
}
