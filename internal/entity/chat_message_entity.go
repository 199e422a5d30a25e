package entity

// Citation points at a retrieved source backing part of a grounded answer.
// Only assistant messages produced in grounded mode carry citations.
type Citation struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// ChatMessage is one turn in a session timeline. Ids are millisecond
// timestamps assigned on submit (user) or on response start (assistant), so
// they stay time-ordered within a session.
type ChatMessage struct {
	Id        string     `json:"id"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
}
