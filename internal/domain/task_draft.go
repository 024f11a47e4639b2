package domain

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TaskDraft represents a task to be created from file input.
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Due         string `yaml:"due"`
	Status      Status `yaml:"status"`
}

// taskDraftFile is the document form: a `tasks:` key holding the list.
type taskDraftFile struct {
	Tasks []TaskDraft `yaml:"tasks"`
}

// ParseTaskDrafts parses a YAML file containing one or more task definitions.
//
// Format:
//
//	tasks:
//	  - title: Write report
//	    description: Quarterly numbers
//	    due: 2026-03-31
//	    status: IN_PROGRESS
//	  - title: Book flights
//
// A bare top-level list is accepted too. Every draft is validated; the first
// invalid one is reported with its 1-based position.
func ParseTaskDrafts(content []byte) ([]TaskDraft, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.New("no tasks found in file")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("no tasks found in file")
	}

	var drafts []TaskDraft
	switch node := root.Content[0]; node.Kind {
	case yaml.MappingNode:
		var doc taskDraftFile
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse task file: %w", err)
		}
		drafts = doc.Tasks
	case yaml.SequenceNode:
		if err := node.Decode(&drafts); err != nil {
			return nil, fmt.Errorf("parse task file: %w", err)
		}
	default:
		return nil, errors.New("parse task file: expected a list of tasks")
	}

	if len(drafts) == 0 {
		return nil, errors.New("no tasks found in file")
	}

	for i := range drafts {
		d := &drafts[i]
		d.Title = strings.TrimSpace(d.Title)
		if err := ValidateTitle(d.Title); err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		if d.Status == "" {
			d.Status = StatusPending
		}
		if _, err := ParseDueDate(d.Due); err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
	}
	return drafts, nil
}
