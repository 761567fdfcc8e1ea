package composer

// Styles are the audiences a blog can be written for.
var Styles = []string{
	"Researchers",
	"Data Scientists",
	"Business Executives",
	"Students",
	"Tech Enthusiasts",
	"Entrepreneurs",
	"Healthcare Professionals",
	"Marketers",
	"Educators",
	"Common Audience",
}

func IsKnownStyle(style string) bool {
	for _, s := range Styles {
		if s == style {
			return true
		}
	}
	return false
}
