package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Unique identifier
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Type        string `json:"type"`               // "builtin" or "json"
	FilePath    string `json:"filePath,omitempty"` // Path to the scene file (json type only)
}

var builtInScenes = []SceneInfo{
	{
		ID:          "default",
		DisplayName: "Default Scene",
		Description: "Diffuse, metal and hollow glass spheres on a ground sphere",
		Type:        "builtin",
	},
	{
		ID:          "random",
		DisplayName: "Random Spheres",
		Description: "Procedural field of small spheres around three large ones",
		Type:        "builtin",
	},
	{
		ID:          "grid",
		DisplayName: "Sphere Grid",
		Description: "10x10 grid of rainbow-colored metallic spheres",
		Type:        "builtin",
	},
}

// Builtin returns a freshly built copy of a named built-in scene
func Builtin(name string) (*State, error) {
	switch name {
	case "default", "":
		return NewDefaultScene(), nil
	case "random":
		return NewRandomScene(defaultSeed), nil
	case "grid", "sphere-grid":
		return NewSphereGridScene(10), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
}

// ListBuiltinScenes returns metadata for every built-in scene
func ListBuiltinScenes() []SceneInfo {
	return append([]SceneInfo(nil), builtInScenes...)
}

// ListSceneFiles scans dir for *.json scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		info := SceneInfo{
			ID:          "json:" + nameWithoutExt,
			DisplayName: titleCase(nameWithoutExt),
			Type:        "json",
			FilePath:    filePath,
		}

		// Skip files that do not parse, but keep listing the rest
		state, err := Load(filePath)
		if err != nil {
			core.Logger().Warn("skipping scene file", "path", filePath, "error", err)
			continue
		}
		info.Description = fmt.Sprintf("%d spheres, %dx%d", state.World.Len(), state.Width, state.Height)
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ListAllScenes returns built-in scenes first, then scene files found in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(ListBuiltinScenes(), files...), nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
