package api

import "fmt"

// RequiredString extracts a required string parameter from tool arguments.
// Returns the string value and nil error on success.
// Returns an error if the parameter is missing, empty or not a string.
func RequiredString(params ToolHandlerParams, key string) (string, error) {
	args := params.GetArguments()
	val, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s parameter required", key)
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s parameter must be a string", key)
	}
	if str == "" {
		return "", fmt.Errorf("%s parameter must not be empty", key)
	}
	return str, nil
}

// OptionalString extracts an optional string parameter from tool arguments.
// Returns the string value if present and valid, or defaultVal if missing or not a string.
func OptionalString(params ToolHandlerParams, key, defaultVal string) string {
	args := params.GetArguments()
	val, ok := args[key]
	if !ok {
		return defaultVal
	}
	str, ok := val.(string)
	if !ok {
		return defaultVal
	}
	return str
}

// OptionalBool extracts an optional boolean parameter from tool arguments.
// Returns nil when the parameter is missing or not a boolean, so callers can
// tell an omitted flag apart from an explicit false.
func OptionalBool(params ToolHandlerParams, key string) *bool {
	val, ok := params.GetArguments()[key]
	if !ok {
		return nil
	}
	b, ok := val.(bool)
	if !ok {
		return nil
	}
	return &b
}

// OptionalStringSlice extracts an optional array of strings from tool arguments.
// Non-string items are skipped.
func OptionalStringSlice(params ToolHandlerParams, key string) []string {
	val, ok := params.GetArguments()[key]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		ret := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				ret = append(ret, s)
			}
		}
		return ret
	default:
		return nil
	}
}
