package generator

import (
	"fmt"
	"math/rand"

	"github.com/verte-zerg/hippotype/internal/model"
)

const (
	genericTopic = "interesting facts"
	seedRange    = 10000
)

var topics = map[model.Domain][]string{
	model.DomainGeneral: {
		"fascinating scientific breakthroughs", "historical mysteries", "technological innovations",
		"natural wonders", "space discoveries", "ancient civilizations", "modern inventions",
		"environmental phenomena", "cultural achievements", "medical advances",
	},
	model.DomainStory: {
		"time travel adventure", "mystery solving", "space exploration", "magical quest",
		"detective work", "superhero journey", "underwater expedition", "forest adventure",
		"robot friendship", "treasure hunting",
	},
	model.DomainCoding: {
		"algorithm optimization", "data structure design", "software architecture", "debugging techniques",
		"code refactoring", "performance tuning", "security practices", "API development",
		"database design", "testing strategies",
	},
}

type prompt struct {
	System string
	User   string
	Topic  string
	Seed   int
}

// Topics returns the topic list for a domain, nil for unknown domains.
func Topics(domain model.Domain) []string {
	return topics[domain]
}

func buildPrompt(rnd *rand.Rand, domain model.Domain) prompt {
	p := prompt{Topic: genericTopic, Seed: rnd.Intn(seedRange)}
	if list := topics[domain]; len(list) > 0 {
		p.Topic = list[rnd.Intn(len(list))]
	}
	switch domain {
	case model.DomainStory:
		p.System = "You are a creative storyteller who writes engaging short stories for typing practice."
		p.User = fmt.Sprintf("Write a unique, captivating short story (3-4 sentences) about %s. Make it creative and fun but keep it simple for typing practice. No dialogue or quotation marks. Seed: %d", p.Topic, p.Seed)
	case model.DomainCoding:
		p.System = "You are an experienced software developer who explains programming concepts clearly."
		p.User = fmt.Sprintf("Write an informative paragraph about %s in programming. Explain the concept clearly with practical insights. No code blocks, just explanatory text that's educational. Seed: %d", p.Topic, p.Seed)
	default:
		p.System = "You are an educational content creator who writes interesting and engaging factual content."
		p.User = fmt.Sprintf("Write a fascinating paragraph about %s. Include interesting facts that are educational and engaging. Make it suitable for typing practice with clear, flowing sentences. Seed: %d", p.Topic, p.Seed)
	}
	return p
}
