package entity

// SMS is a text message addressed to a phone in E.164 form.
type SMS struct {
	Phone string
	Text  string
}
