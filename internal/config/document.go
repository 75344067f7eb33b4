package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document mirrors the on-disk layout of the game file:
//
//	Game:
//	  DataProvider: {ApiKey: ..., Proxy: ..., Endpoint: ...}
//	  Event:
//	    Matches: [[France, Romania], ...]
//	  Users:
//	    MB: {givenName: ..., sureName: ..., tips: [[2, 1], ...]}
type Document struct {
	Game GameSection `yaml:"Game" validate:"required"`
}

type GameSection struct {
	DataProvider DataProviderSection `yaml:"DataProvider"`
	Event        EventSection        `yaml:"Event" validate:"required"`
	Users        UserSections        `yaml:"Users"`
}

type DataProviderSection struct {
	APIKey   string `yaml:"ApiKey"`
	Proxy    string `yaml:"Proxy"`
	Endpoint string `yaml:"Endpoint" validate:"omitempty,url"`
}

type EventSection struct {
	Matches [][]string `yaml:"Matches" validate:"required,min=1,dive,len=2,dive,required"`
}

// UserSection accepts both sureName and surName spellings.
type UserSection struct {
	Code      string  `yaml:"-" validate:"required"`
	GivenName string  `yaml:"givenName" validate:"required"`
	SureName  string  `yaml:"sureName" validate:"required_without=SurName"`
	SurName   string  `yaml:"surName"`
	Tips      [][]int `yaml:"tips" validate:"dive,len=2,dive,min=0"`
}

func (u UserSection) surname() string {
	if u.SureName != "" {
		return u.SureName
	}
	return u.SurName
}

// UserSections decodes the Users mapping in file order.
type UserSections []UserSection

func (s *UserSections) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: Users must be a mapping of short code to user", node.Line)
	}

	out := make(UserSections, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var section UserSection
		if err := value.Decode(&section); err != nil {
			return fmt.Errorf("user %q: %w", key.Value, err)
		}
		section.Code = key.Value
		out = append(out, section)
	}
	*s = out
	return nil
}
