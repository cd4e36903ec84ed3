package domain

// Variant selects how a notification is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient, user-visible message.
type Notification struct {
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

// Success builds a default-variant notification.
func Success(title, description string) Notification {
	return Notification{Variant: VariantDefault, Title: title, Description: description}
}

// Failure builds a destructive notification with the standard "Error" title.
func Failure(description string) Notification {
	return Notification{Variant: VariantDestructive, Title: "Error", Description: description}
}
