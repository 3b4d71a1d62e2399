// Package deck assembles the study card pool from exported topic sets and
// derives the identity keys that progress state is stored under.
package deck

import (
	"sort"
	"strings"

	"github.com/recallkit/recallkit/internal/domain"
)

const identitySep = "|"

// Identity derives the progress-store key for a card from its topic, tag,
// title and question. Two cards sharing all four fields share one key and
// therefore one progress entry; existing stored progress depends on this
// exact concatenation, so it must not change.
func Identity(card domain.Card) string {
	return strings.Join([]string{card.Topic, card.Tag, card.Title, card.Question}, identitySep)
}

// Pool merges per-topic card sets into one ordered pool, stamping every card
// with its topic name. Topic order follows the input map's sorted key order
// so repeated loads produce the same pool.
func Pool(sets map[string][]domain.Card) []domain.Card {
	topics := make([]string, 0, len(sets))
	for topic := range sets {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	var pool []domain.Card
	for _, topic := range topics {
		for _, c := range sets[topic] {
			c.Topic = topic
			pool = append(pool, c)
		}
	}
	return pool
}

// Filter returns the cards matching the given topic and tag. An empty
// filter or the literal "all" matches everything.
func Filter(cards []domain.Card, topic, tag string) []domain.Card {
	var out []domain.Card
	for _, c := range cards {
		if !matches(c.Topic, topic) || !matches(c.Tag, tag) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matches(value, filter string) bool {
	return filter == "" || filter == "all" || value == filter
}

// Topics returns the distinct topic names present in the pool, sorted.
func Topics(cards []domain.Card) []string {
	return distinct(cards, func(c domain.Card) string { return c.Topic })
}

// Tags returns the distinct tag names present in the pool, sorted.
func Tags(cards []domain.Card) []string {
	return distinct(cards, func(c domain.Card) string { return c.Tag })
}

func distinct(cards []domain.Card, field func(domain.Card) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range cards {
		v := field(c)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
