package iconset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"EC2 Instance.svg", "ec2-instance"},
		{"ec2-instance.svg", "ec2-instance"},
		{"Arch_Amazon-EC2_64.svg", "arch-amazon-ec2-64"},
		{"Cloud  SQL.svg", "cloud-sql"},
		{"already-clean", "already-clean"},
		{"UPPER.SVG", "upper"},
		{"trailing---.svg", "trailing"},
		{"__leading.svg", "leading"},
		{"weird (copy) #2.svg", "weird-copy-2"},
		{".svg", ""},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSetBasics(t *testing.T) {
	t.Parallel()

	set := New("aws")
	assert.Equal(t, "aws", set.Prefix())
	assert.Equal(t, 0, set.Len())

	set.Add("ec2-instance", "<svg>ec2</svg>")
	set.Add("s3-bucket", "<svg>s3</svg>")

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Has("ec2-instance"))
	assert.False(t, set.Has("lambda"))

	icon, ok := set.Get("ec2-instance")
	require.True(t, ok)
	assert.Equal(t, "<svg>ec2</svg>", icon.Body)

	require.NoError(t, set.Replace("ec2-instance", "<svg>clean</svg>"))
	icon, _ = set.Get("ec2-instance")
	assert.Equal(t, "<svg>clean</svg>", icon.Body)

	assert.Error(t, set.Replace("lambda", "<svg/>"))
}

func TestSetAliases(t *testing.T) {
	t.Parallel()

	set := New("aws")
	set.Add("ec2-instance", "<svg>ec2</svg>")

	require.NoError(t, set.AddAlias("compute", "ec2-instance"))
	assert.True(t, set.Has("compute"))

	// Alias lookup resolves to the parent icon
	viaAlias, ok := set.Get("compute")
	require.True(t, ok)
	direct, ok := set.Get("ec2-instance")
	require.True(t, ok)
	assert.Same(t, direct, viaAlias)

	// Aliases never count as icons
	assert.Equal(t, 1, set.Len())

	// Alias to a missing icon is rejected
	assert.Error(t, set.AddAlias("broken", "lambda"))
}

func TestSetRemove(t *testing.T) {
	t.Parallel()

	set := New("aws")
	set.Add("ec2-instance", "<svg>ec2</svg>")
	set.Add("s3-bucket", "<svg>s3</svg>")
	require.NoError(t, set.AddAlias("compute", "ec2-instance"))

	set.Remove("ec2-instance")

	assert.False(t, set.Has("ec2-instance"))
	assert.False(t, set.Has("compute"), "aliases of a removed icon must go with it")
	assert.True(t, set.Has("s3-bucket"))
	assert.Equal(t, 1, set.Len())
}

func TestSetEntries(t *testing.T) {
	t.Parallel()

	set := New("aws")
	set.Add("s3-bucket", "<svg>s3</svg>")
	set.Add("ec2-instance", "<svg>ec2</svg>")
	require.NoError(t, set.AddAlias("storage", "s3-bucket"))

	entries := set.Entries()
	require.Len(t, entries, 3)

	// Sorted icons first, then sorted aliases, each tagged with its type
	assert.Equal(t, Entry{Name: "ec2-instance", Type: EntryTypeIcon}, entries[0])
	assert.Equal(t, Entry{Name: "s3-bucket", Type: EntryTypeIcon}, entries[1])
	assert.Equal(t, Entry{Name: "storage", Type: EntryTypeAlias}, entries[2])

	assert.Equal(t, []string{"ec2-instance", "s3-bucket"}, set.Names())
}

func TestSetExport(t *testing.T) {
	t.Parallel()

	set := New("gcp")
	set.Add("cloud-sql", "<svg>sql</svg>")
	require.NoError(t, set.AddAlias("database", "cloud-sql"))

	out := set.Export()
	assert.Equal(t, "gcp", out.Prefix)
	require.Contains(t, out.Icons, "cloud-sql")
	assert.Equal(t, "<svg>sql</svg>", out.Icons["cloud-sql"].Body)
	require.Contains(t, out.Aliases, "database")
	assert.Equal(t, "cloud-sql", out.Aliases["database"].Parent)

	// Alias map omitted entirely when empty
	empty := New("aws")
	empty.Add("ec2", "<svg/>")
	assert.Nil(t, empty.Export().Aliases)
}
