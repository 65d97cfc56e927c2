package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/src/Store.cs b/src/Store.cs
index 1111111..2222222 100644
--- a/src/Store.cs
+++ b/src/Store.cs
@@ -10,0 +11,2 @@ public class Store
+            Contract.Requires(key != null);
+            Contract.Requires(item != null);
@@ -30 +32 @@ public class Store
-old
+new
diff --git a/README.md b/README.md
index 3333333..4444444 100644
--- a/README.md
+++ b/README.md
@@ -1,2 +1,0 @@
-a
-b
diff --git a/src/Old.cs b/src/Old.cs
deleted file mode 100644
index 5555555..0000000
--- a/src/Old.cs
+++ /dev/null
@@ -1,3 +0,0 @@
-class Old
-{
-}
`

func TestParseDiff(t *testing.T) {
	changes, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, "src/Store.cs", changes[0].Path)
	assert.Equal(t, []int{11, 12, 32}, changes[0].ChangedLines)
	assert.Equal(t, "README.md", changes[1].Path)
	assert.Empty(t, changes[1].ChangedLines)
	assert.Equal(t, "/dev/null", changes[2].Path)
}

func TestFilterSources(t *testing.T) {
	changes, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)

	got := filterSources("/repo", changes, []string{".cs"})
	assert.Equal(t, []string{filepath.Join("/repo", "src", "Store.cs")}, got)
	assert.Len(t, filterSources("/repo", changes, nil), 2)
}
