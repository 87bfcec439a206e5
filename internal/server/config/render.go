package config

import "gopkg.in/yaml.v3"

// String renders the configuration as YAML. Nothing in it is secret, so
// it can be logged as-is.
func (c *ProjectConfig) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "<unrenderable config: " + err.Error() + ">"
	}
	return string(out)
}
