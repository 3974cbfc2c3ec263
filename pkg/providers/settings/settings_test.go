package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var ollamaKeys = Keys{BaseURL: "OLLAMA_API_BASE_URL"}

func TestResolve_ExplicitOverridesEnv(t *testing.T) {
	src := Sources{
		Providers: map[string]Setting{"Ollama": {BaseURL: "http://explicit:11434"}},
		ServerEnv: map[string]string{"OLLAMA_API_BASE_URL": "http://env:11434"},
	}

	conn := Resolve("Ollama", src, ollamaKeys)
	assert.Equal(t, "http://explicit:11434", conn.BaseURL)
	assert.True(t, conn.HasBaseURL())
}

func TestResolve_FallsThroughToEnv(t *testing.T) {
	src := Sources{
		Providers: map[string]Setting{"Ollama": {}},
		ServerEnv: map[string]string{"OLLAMA_API_BASE_URL": "http://env:11434"},
	}

	assert.Equal(t, "http://env:11434", Resolve("Ollama", src, ollamaKeys).BaseURL)
}

func TestResolve_BothAbsent(t *testing.T) {
	conn := Resolve("Ollama", Sources{}, ollamaKeys)

	assert.Empty(t, conn.BaseURL)
	assert.Empty(t, conn.APIToken)
	assert.False(t, conn.HasBaseURL())
}

func TestResolve_OtherProviderSettingsIgnored(t *testing.T) {
	src := Sources{
		Providers: map[string]Setting{"LMStudio": {BaseURL: "http://lmstudio:1234"}},
	}

	assert.False(t, Resolve("Ollama", src, ollamaKeys).HasBaseURL())
}

func TestResolve_EmptyKeyNeverLookedUp(t *testing.T) {
	src := Sources{ServerEnv: map[string]string{"": "http://weird"}}

	assert.False(t, Resolve("Ollama", src, Keys{}).HasBaseURL())
}

func TestResolve_TrimsTrailingSlash(t *testing.T) {
	src := Sources{ServerEnv: map[string]string{"OLLAMA_API_BASE_URL": "http://env:11434/"}}

	assert.Equal(t, "http://env:11434", Resolve("Ollama", src, ollamaKeys).BaseURL)
}

func TestResolve_TokenPrecedence(t *testing.T) {
	keys := Keys{BaseURL: "BASE", APIToken: "TOKEN"}

	tests := []struct {
		name string
		src  Sources
		want string
	}{
		{
			name: "api key wins",
			src: Sources{
				APIKeys:   map[string]string{"p": "from-keys"},
				Providers: map[string]Setting{"p": {APIToken: "from-settings"}},
				ServerEnv: map[string]string{"TOKEN": "from-env"},
			},
			want: "from-keys",
		},
		{
			name: "settings before env",
			src: Sources{
				APIKeys:   map[string]string{"p": ""},
				Providers: map[string]Setting{"p": {APIToken: "from-settings"}},
				ServerEnv: map[string]string{"TOKEN": "from-env"},
			},
			want: "from-settings",
		},
		{
			name: "env last",
			src:  Sources{ServerEnv: map[string]string{"TOKEN": "from-env"}},
			want: "from-env",
		},
		{
			name: "absent",
			src:  Sources{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve("p", tt.src, keys).APIToken)
		})
	}
}

func TestResolve_FieldsIndependent(t *testing.T) {
	src := Sources{
		Providers: map[string]Setting{"p": {BaseURL: "http://explicit"}},
		ServerEnv: map[string]string{"TOKEN": "from-env"},
	}

	conn := Resolve("p", src, Keys{BaseURL: "BASE", APIToken: "TOKEN"})
	assert.Equal(t, "http://explicit", conn.BaseURL)
	assert.Equal(t, "from-env", conn.APIToken)
}
