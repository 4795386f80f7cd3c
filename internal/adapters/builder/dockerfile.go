package builder

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/pharoslabs/pharos/internal/config"
)

// lockFileName is the pinned requirements file written into every build
// context; the generated Dockerfile installs from it, never from the raw
// manifest, so the installed set exactly matches the resolved set.
const lockFileName = "requirements.lock"

var dockerfileTmpl = template.Must(template.New("dockerfile").Parse(`FROM {{.BaseImage}}

WORKDIR {{.WorkDir}}

COPY {{.LockFile}} ./
RUN pip install --no-cache-dir -r {{.LockFile}}

COPY . .

EXPOSE {{.Port}}

CMD ["uvicorn", "{{.EntryPoint}}", "--host", "{{.BindAddr}}", "--port", "{{.Port}}"]
`))

// renderDockerfile produces the build recipe from the startup contract
// constants. Same config in, byte-identical Dockerfile out.
func renderDockerfile(cfg *config.Config) (string, error) {
	var b strings.Builder
	err := dockerfileTmpl.Execute(&b, struct {
		BaseImage  string
		WorkDir    string
		LockFile   string
		Port       int
		BindAddr   string
		EntryPoint string
	}{
		BaseImage:  cfg.Builder.BaseImage,
		WorkDir:    cfg.App.WorkDir,
		LockFile:   lockFileName,
		Port:       cfg.App.Port,
		BindAddr:   cfg.App.BindAddr,
		EntryPoint: cfg.App.EntryPoint,
	})
	if err != nil {
		return "", fmt.Errorf("rendering dockerfile: %w", err)
	}
	return b.String(), nil
}
