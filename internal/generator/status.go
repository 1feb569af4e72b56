package generator

import (
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/verte-zerg/hippotype/internal/model"
)

// StatusFor maps a generation error to the HTTP status served to clients.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusPaymentRequired:
			return apiErr.HTTPStatusCode
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusPaymentRequired:
			return reqErr.HTTPStatusCode
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized"):
		return http.StatusUnauthorized
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return http.StatusTooManyRequests
	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing"):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// StatusMessage returns a user-facing explanation for a status from StatusFor.
func StatusMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Invalid Groq API key. Please check GROQ_API_KEY"
	case http.StatusTooManyRequests:
		return "Rate limit exceeded. Please wait a moment and try again"
	case http.StatusPaymentRequired:
		return "Groq API quota exceeded. Check your account at console.groq.com"
	default:
		return "Error generating text"
	}
}

var fallbacks = map[model.Domain]string{
	model.DomainGeneral: "Artificial intelligence continues to revolutionize various industries through machine learning algorithms. These systems can process vast amounts of data to identify patterns and make predictions with remarkable accuracy.",
	model.DomainStory:   "In a bustling digital world, a young programmer discovered an ancient coding secret hidden in legacy systems. This mysterious algorithm held the power to transform how computers understood human language.",
	model.DomainCoding:  "Modern software development relies heavily on version control systems to manage code changes. Git repositories allow multiple developers to collaborate efficiently while maintaining a complete history of project modifications.",
}

// Fallback returns the server-side fallback passage for a domain.
func Fallback(domain model.Domain) string {
	if text, ok := fallbacks[domain]; ok {
		return text
	}
	return fallbacks[model.DomainGeneral]
}
