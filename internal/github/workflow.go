package github

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HasReleaseWorkflow reports whether the repository at dir carries a GitHub
// Actions workflow triggered by tag pushes or release events. Such a
// workflow owns hosted-release creation, so the release flow skips it.
func HasReleaseWorkflow(dir string) (bool, error) {
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, ".github", "workflows", pattern))
		if err != nil {
			return false, err
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				return false, err
			}
			ok, err := isReleaseWorkflow(data)
			if err != nil {
				return false, fmt.Errorf("parsing workflow %s: %w", filepath.Base(path), err)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// isReleaseWorkflow inspects a workflow's "on" triggers, which may be a
// scalar event name, a sequence of names, or a mapping with per-event
// filters.
func isReleaseWorkflow(data []byte) (bool, error) {
	var wf struct {
		On yaml.Node `yaml:"on"`
	}
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return false, err
	}
	switch wf.On.Kind {
	case yaml.ScalarNode:
		return wf.On.Value == "release", nil
	case yaml.SequenceNode:
		for _, item := range wf.On.Content {
			if item.Value == "release" {
				return true, nil
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(wf.On.Content); i += 2 {
			key, value := wf.On.Content[i], wf.On.Content[i+1]
			if key.Value == "release" {
				return true, nil
			}
			if key.Value == "push" && value.Kind == yaml.MappingNode {
				for j := 0; j+1 < len(value.Content); j += 2 {
					if value.Content[j].Value == "tags" {
						return true, nil
					}
				}
			}
		}
	}
	return false, nil
}
