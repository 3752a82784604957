package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	yml "sigs.k8s.io/yaml"
)

var Json = &jsonOutput{}

var Yaml = &yaml{}

type Output interface {
	// GetName returns the name of the output format, will be used by the CLI to identify the output format.
	GetName() string
	// PrintObj renders a JSON document returned by RunPod.
	PrintObj(raw json.RawMessage) (string, error)
}

var Outputs = []Output{
	Json,
	Yaml,
}

var Names []string

func FromString(name string) Output {
	for _, output := range Outputs {
		if output.GetName() == name {
			return output
		}
	}
	return nil
}

type jsonOutput struct{}

func (p *jsonOutput) GetName() string {
	return "json"
}

// PrintObj re-indents raw with two spaces, keeping the key order and string
// escaping of the original document.
func (p *jsonOutput) PrintObj(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", fmt.Errorf("empty JSON document")
	}
	buf := new(bytes.Buffer)
	if err := json.Indent(buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type yaml struct{}

func (p *yaml) GetName() string {
	return "yaml"
}

func (p *yaml) PrintObj(raw json.RawMessage) (string, error) {
	ret, err := yml.JSONToYAML(raw)
	if err != nil {
		return "", err
	}
	return string(ret), nil
}

// MarshalJson renders v as 2-space indented JSON without HTML escaping.
func MarshalJson(v any) (string, error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func MarshalYaml(v any) (string, error) {
	ret, err := yml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(ret), nil
}

func init() {
	Names = make([]string, 0)
	for _, output := range Outputs {
		Names = append(Names, output.GetName())
	}
}
