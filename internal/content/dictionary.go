// Package content renders the landing page and dashboard shells from the
// embedded per-language dictionaries.
package content

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed dictionaries/*.yaml
var dictionaryFS embed.FS

// DefaultLang is used for unknown or missing languages
const DefaultLang = "en"

// Item is a card with an icon, a title and a description
type Item struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Section has a heading and optional cards
type Section struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Items    []Item `yaml:"items"`
}

// Interests are the options of the contact form select, in display order
type Interests struct {
	Beta        string `yaml:"beta"`
	Pilot       string `yaml:"pilot"`
	Partnership string `yaml:"partnership"`
	Advisory    string `yaml:"advisory"`
	Other       string `yaml:"other"`
}

// Option is a value/label pair of a select
type Option struct {
	Value string
	Label string
}

// Options lists the interests in display order
func (i Interests) Options() []Option {
	return []Option{
		{"beta", i.Beta},
		{"pilot", i.Pilot},
		{"partnership", i.Partnership},
		{"advisory", i.Advisory},
		{"other", i.Other},
	}
}

// Dictionary is the full copy of the landing page in one language
type Dictionary struct {
	Lang string `yaml:"lang"`
	Nav  struct {
		Problem  string `yaml:"problem"`
		Solution string `yaml:"solution"`
		Vision   string `yaml:"vision"`
		Contact  string `yaml:"contact"`
	} `yaml:"nav"`
	Hero struct {
		Title        string `yaml:"title"`
		Subtitle     string `yaml:"subtitle"`
		CTA          string `yaml:"cta"`
		CTASecondary string `yaml:"cta_secondary"`
		Stats        struct {
			Savings string `yaml:"savings"`
			Quality string `yaml:"quality"`
			Privacy string `yaml:"privacy"`
		} `yaml:"stats"`
	} `yaml:"hero"`
	Problem  Section `yaml:"problem"`
	Solution struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		Before   string `yaml:"before"`
		After    string `yaml:"after"`
		Saved    string `yaml:"saved"`
		Demo     struct {
			Before  string `yaml:"before"`
			After   string `yaml:"after"`
			Savings string `yaml:"savings"`
			Cost    string `yaml:"cost"`
			CO2     string `yaml:"co2"`
		} `yaml:"demo"`
		CTA string `yaml:"cta"`
	} `yaml:"solution"`
	Differentiators Section `yaml:"differentiators"`
	Vision          struct {
		Title    string   `yaml:"title"`
		Subtitle string   `yaml:"subtitle"`
		Features []string `yaml:"features"`
		CTA      string   `yaml:"cta"`
	} `yaml:"vision"`
	WhatWeNeed Section `yaml:"what_we_need"`
	Contact    struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		Form     struct {
			Name      string    `yaml:"name"`
			Email     string    `yaml:"email"`
			Company   string    `yaml:"company"`
			Interest  string    `yaml:"interest"`
			Interests Interests `yaml:"interests"`
			Message   string    `yaml:"message"`
			Submit    string    `yaml:"submit"`
			Success   string    `yaml:"success"`
			Error     string    `yaml:"error"`
		} `yaml:"form"`
		Direct struct {
			Title    string `yaml:"title"`
			WhatsApp string `yaml:"whatsapp"`
			Email    string `yaml:"email"`
			LinkedIn string `yaml:"linkedin"`
		} `yaml:"direct"`
	} `yaml:"contact"`
	FAQ struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		Items    []struct {
			Question string `yaml:"question"`
			Answer   string `yaml:"answer"`
		} `yaml:"items"`
	} `yaml:"faq"`
	Footer struct {
		Tagline   string `yaml:"tagline"`
		Copyright string `yaml:"copyright"`
	} `yaml:"footer"`
}

// LoadDictionaries parses every embedded dictionary, keyed by language
func LoadDictionaries() (map[string]*Dictionary, error) {
	entries, err := dictionaryFS.ReadDir("dictionaries")
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionaries: %w", err)
	}

	dicts := make(map[string]*Dictionary, len(entries))
	for _, entry := range entries {
		data, err := dictionaryFS.ReadFile("dictionaries/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read dictionary %s: %w", entry.Name(), err)
		}
		var d Dictionary
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse dictionary %s: %w", entry.Name(), err)
		}
		if d.Lang == "" {
			return nil, fmt.Errorf("dictionary %s has no lang", entry.Name())
		}
		dicts[d.Lang] = &d
	}

	if _, ok := dicts[DefaultLang]; !ok {
		return nil, fmt.Errorf("missing %s dictionary", DefaultLang)
	}
	return dicts, nil
}
