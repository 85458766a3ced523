package portal

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Uploads saves user-submitted files under a base directory and maps
// them to URLs served by the static file route.
type Uploads struct {
	baseDir string
}

func NewUploads(baseDir string) *Uploads {
	return &Uploads{baseDir: baseDir}
}

// BaseDir is the directory the static file route should serve.
func (u *Uploads) BaseDir() string {
	return u.baseDir
}

// Save stores the file under baseDir/subdir with a random name prefix,
// keeping the original name for readability, and returns the public URL
// path.
func (u *Uploads) Save(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	dir := filepath.Join(u.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("portal: create upload dir: %w", err)
	}

	// The random prefix prevents collisions and path guessing.
	filename := uuid.NewString() + "-" + filepath.Base(file.Filename)
	dst := filepath.Join(dir, filename)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("portal: save upload: %w", err)
	}

	url := "/uploads/" + filename
	if subdir != "" {
		url = "/uploads/" + subdir + "/" + filename
	}
	return url, nil
}
