package ollama

// DefaultNumCtx is the context window handed to Ollama when no override is set.
const DefaultNumCtx = 32768

// NumCtxKey is the environment key that overrides DefaultNumCtx.
const NumCtxKey = "DEFAULT_NUM_CTX"

// ParseNumCtx parses a context-window override. Leading whitespace and a
// leading run of digits are accepted, so "8192" and "8192tokens" both yield
// 8192. Numeric values of zero or less ("0", "-5") are invalid context
// windows and, like empty, non-numeric or overflowing input, yield
// DefaultNumCtx.
func ParseNumCtx(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	if i < len(s) && s[i] == '+' {
		i++
	}

	n, digits := 0, 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		digits++
		if n > 1<<30 {
			return DefaultNumCtx
		}
	}

	if digits == 0 || n <= 0 {
		return DefaultNumCtx
	}
	return n
}

// NumCtxFromEnv reads NumCtxKey from env. It is meant to be called once at
// startup and the result passed to New through Options.NumCtx.
func NumCtxFromEnv(env map[string]string) int {
	return ParseNumCtx(env[NumCtxKey])
}
