package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	go_json "github.com/goccy/go-json"

	"github.com/KyubiGames/autoenvios-ml/internal/client/meli"
)

// ErrNoRule means the purchased item has no catalog entry and no default
// is configured. Callers skip the send; a missing entry is not the
// webhook caller's fault and must not trigger redelivery.
var ErrNoRule = errors.New("no message rule for item")

const (
	placeholderBuyerName = "{{buyer_name}}"
	placeholderLink      = "{{link}}"
)

// linkTemplate is the message used when a rule carries only a download
// link and no custom text.
const linkTemplate = "¡Gracias por tu compra, " + placeholderBuyerName + "!\n\n" +
	"Aquí tenés el link de descarga:\n\n" +
	"👉 " + placeholderLink + "\n\n" +
	"Cualquier duda, estoy para ayudarte."

// Rule is one message rule: literal text, a download link, or both.
// Text may reference {{buyer_name}} and {{link}}. Rules are plain data;
// rendering is a pure function of (rule, buyer).
type Rule struct {
	Text string `json:"text,omitempty"`
	Link string `json:"link,omitempty"`
}

func (r Rule) empty() bool { return r.Text == "" && r.Link == "" }

// Catalog maps catalog-item ids to message rules. Fixed configuration
// data: built once at startup, never mutated afterwards.
type Catalog struct {
	rules       map[string]Rule
	defaultRule *Rule
}

func New(rules map[string]Rule, defaultRule *Rule) *Catalog {
	c := &Catalog{rules: make(map[string]Rule, len(rules))}
	for id, rule := range rules {
		c.rules[id] = rule
	}
	if defaultRule != nil && !defaultRule.empty() {
		r := *defaultRule
		c.defaultRule = &r
	}
	return c
}

type catalogFile struct {
	Items   map[string]Rule `json:"items"`
	Default *Rule           `json:"default,omitempty"`
}

// Load reads a catalog from a JSON file:
//
//	{
//	  "items": {
//	    "MLA123": {"link": "https://example.com/kit.zip"},
//	    "MLA456": {"text": "Gracias {{buyer_name}}!"}
//	  },
//	  "default": {"text": "¡Gracias por tu compra!"}
//	}
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := go_json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	for id, rule := range file.Items {
		if rule.empty() {
			return nil, fmt.Errorf("catalog entry %q has neither text nor link", id)
		}
	}

	return New(file.Items, file.Default), nil
}

// WithDefault returns a copy of the catalog that falls back to rule when
// no default is configured yet.
func (c *Catalog) WithDefault(rule Rule) *Catalog {
	if c.defaultRule != nil {
		return c
	}
	return New(c.rules, &rule)
}

// Len reports the number of item entries, excluding the default.
func (c *Catalog) Len() int { return len(c.rules) }

// HasDefault reports whether a fallback rule is configured.
func (c *Catalog) HasDefault() bool { return c.defaultRule != nil }

// Resolve returns the message text for a purchased item. Lookup is
// exact-match on the item id, falling back to the default rule.
// Deterministic: same (item, buyer) always yields the same text.
func (c *Catalog) Resolve(itemID string, buyer meli.Buyer) (string, error) {
	rule, ok := c.rules[itemID]
	if !ok {
		if c.defaultRule == nil {
			return "", fmt.Errorf("%w: %s", ErrNoRule, itemID)
		}
		rule = *c.defaultRule
	}
	return render(rule, buyer), nil
}

func render(rule Rule, buyer meli.Buyer) string {
	text := rule.Text
	if text == "" {
		text = linkTemplate
	}
	return strings.NewReplacer(
		placeholderBuyerName, buyer.DisplayName(),
		placeholderLink, rule.Link,
	).Replace(text)
}
