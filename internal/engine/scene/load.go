package scene

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/formats"
)

// LoadOptions controls how model files are read.
type LoadOptions struct {
	Encoding string // text encoding of the OBJ and MTL files
}

// Load parses the OBJ file at path and every material library it
// references, then builds the scene. Only a failure to read the OBJ file is
// returned; unreadable libraries are logged and contribute no materials.
func Load(path string, opts LoadOptions) (*Scene, error) {
	log := logger.Named("scene")
	fopts := formats.LoadOptions{Encoding: opts.Encoding}

	obj, err := formats.LoadOBJ(path, fopts)
	if err != nil {
		return nil, err
	}
	logWarnings(log, path, obj.Warnings)

	dir := filepath.Dir(path)
	libs := make([]*formats.MTL, 0, len(obj.MaterialLibs))
	for _, ref := range obj.MaterialLibs {
		libPath := libraryPath(dir, ref)
		lib, err := formats.LoadMTL(libPath, fopts)
		if err != nil {
			log.Warn("material library unavailable, faces use the default material",
				zap.String("mtllib", ref),
				zap.Error(err))
			continue
		}
		logWarnings(log, libPath, lib.Warnings)
		libs = append(libs, lib)
	}

	s := Build(obj, libs...)
	s.Path = path
	logWarnings(log, path, s.Warnings)

	log.Info("model loaded",
		zap.String("path", path),
		zap.Int("vertices", len(s.Vertices)),
		zap.Int("normals", len(s.Normals)),
		zap.Int("texcoords", len(s.TexCoords)),
		zap.Int("faces", len(s.Faces)),
		zap.Int("triangles", s.TriangleCount()),
		zap.Int("materials", len(s.Materials)),
		zap.Int("ignored_directives", obj.Stats.Ignored),
		zap.Float32("scale", s.Scale))

	return s, nil
}

// libraryPath resolves an mtllib reference against the OBJ directory.
func libraryPath(dir, ref string) string {
	ref = filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(dir, ref)
}

func logWarnings(log *zap.Logger, path string, warnings []formats.Warning) {
	for _, w := range warnings {
		log.Warn("skipped model data",
			zap.String("file", filepath.Base(path)),
			zap.Int("line", w.Line),
			zap.String("reason", w.Msg))
	}
}
