// redact — помощники для безопасного логирования чувствительных значений.
package redact

// Login маскирует логин, оставляя первые два символа.
// Для e-mail-подобных логинов домен сохраняется как есть.
func Login(s string) string {
	runes := []rune(s)
	if len(runes) <= 2 {
		return "***"
	}

	return string(runes[:2]) + "***"
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
