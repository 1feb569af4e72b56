package textprovider

import "github.com/verte-zerg/hippotype/internal/model"

var fallbacks = map[model.Domain]string{
	model.DomainGeneral: "The quick brown fox jumps over the lazy dog. This pangram contains every letter of the alphabet at least once. It is commonly used for typing practice.",
	model.DomainStory:   "Once upon a time, there was a programmer who loved to type fast. Every day, they practiced their skills to become better at coding and writing.",
	model.DomainCoding:  "Programming languages help us communicate with computers. JavaScript is widely used for web development. Functions and variables are basic building blocks.",
}

// Fallback returns the local passage for a domain. Unknown domains get the
// general passage.
func Fallback(domain model.Domain) string {
	if text, ok := fallbacks[domain]; ok {
		return text
	}
	return fallbacks[model.DomainGeneral]
}
