package discord

const (
	minSnowflakeLen = 17
	maxSnowflakeLen = 20
)

// ValidateSnowflake returns a *ValidationError naming field unless value is a
// Discord snowflake: 17 to 20 ASCII decimal digits. The value is never parsed
// as an integer.
func ValidateSnowflake(field, value string) error {
	if !IsSnowflake(value) {
		return &ValidationError{Field: field, Value: value}
	}
	return nil
}

// IsSnowflake reports whether s has the shape of a Discord snowflake.
func IsSnowflake(s string) bool {
	if len(s) < minSnowflakeLen || len(s) > maxSnowflakeLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidateSnowflakes checks field/value pairs in order and returns the first
// failure. Pairs are given as alternating field name and value.
func ValidateSnowflakes(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := ValidateSnowflake(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
