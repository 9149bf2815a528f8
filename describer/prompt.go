package describer

import (
	"slices"
	"strings"
)

const (
	CategoryOutside  = "outside"
	CategoryInside   = "inside"
	CategoryWorking  = "working"
	CategoryActivity = "activity"
	CategoryDesk     = "desk"
	CategoryGallery  = "gallery"
)

// Categories is the closed set of labels the classifier is asked to choose from.
var Categories = []string{
	CategoryOutside,
	CategoryInside,
	CategoryWorking,
	CategoryActivity,
	CategoryDesk,
	CategoryGallery,
}

const (
	CaptionMaxTokens  = 300
	CategoryMaxTokens = 50
)

const CaptionPrompt = "Directly describe with brevity and as brief as possible the scene or characters without any " +
	"introductory phrase like 'This image shows', 'In the scene', 'This image depicts' or similar phrases. " +
	"Just start describing the scene please. Do not end the caption with a '.'. Some characters may be animated, " +
	"refer to them as regular humans and not animated humans. Please make no reference to any particular style or " +
	"characters from any TV show or Movie. Good examples: a cat on a windowsill, a photo of smiling cactus in an office, " +
	"a man and baby sitting by a window, a photo of wheel on a car."

// CategoryPrompt returns the classification instruction with the caption
// embedded verbatim.
func CategoryPrompt(description string) string {
	return "Given the following description, classify it into one of these categories: " +
		strings.Join(Categories, ", ") + ". " +
		"Categories should be based on the context and activities described in the text. " +
		"Just return the category name without any additional text.\n\n" +
		"Description: " + description
}

// CleanCaption trims the model output and strips every comma and double quote.
func CleanCaption(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer(",", "", `"`, "").Replace(s)
}

// CleanCategory trims and lowercases the model output. No attempt is made to
// map it onto Categories.
func CleanCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsKnownCategory reports whether c is one of Categories.
func IsKnownCategory(c string) bool {
	return slices.Contains(Categories, c)
}
