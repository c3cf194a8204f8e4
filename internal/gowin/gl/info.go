package gl

import (
	"fmt"
	"log/slog"
)

// Info describes the driver behind the current context.
type Info struct {
	Version     string
	Vendor      string
	Renderer    string
	GLSLVersion string
	Profile     string
}

// QueryInfo reads the identification strings and profile of the current context.
func QueryInfo(gl OpenGL) Info {
	var mask int32
	gl.GetIntegerv(ContextProfileMask, &mask)

	return Info{
		Version:     orNull(gl.GetString(Version)),
		Vendor:      orNull(gl.GetString(Vendor)),
		Renderer:    orNull(gl.GetString(Renderer)),
		GLSLVersion: orNull(gl.GetString(ShadingLanguageVersion)),
		Profile:     ProfileName(mask),
	}
}

// ProfileName maps a ContextProfileMask value to a readable name.
func ProfileName(mask int32) string {
	switch {
	case mask&ContextCoreProfileBit != 0:
		return "Core"
	case mask&ContextCompatibilityProfileBit != 0:
		return "Compatibility"
	default:
		return "Unknown"
	}
}

// LogValue implements slog.LogValuer.
func (i Info) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("version", i.Version),
		slog.String("vendor", i.Vendor),
		slog.String("renderer", i.Renderer),
		slog.String("glsl", i.GLSLVersion),
		slog.String("profile", i.Profile),
	)
}

// ParseVersion extracts the major and minor numbers from a GL version string.
// Both desktop ("3.3.0 NVIDIA 535.54") and ES ("OpenGL ES 3.2 Mesa") forms are
// accepted.
func ParseVersion(s string) (major, minor int, err error) {
	if _, err = fmt.Sscanf(s, "%d.%d", &major, &minor); err == nil {
		return major, minor, nil
	}
	if _, err = fmt.Sscanf(s, "OpenGL ES %d.%d", &major, &minor); err == nil {
		return major, minor, nil
	}
	return 0, 0, fmt.Errorf("gl: unrecognized version string %q", s)
}

// RequireVersion fails unless the current context is at least major.minor.
func RequireVersion(gl OpenGL, major, minor int) error {
	versionStr := gl.GetString(Version)
	gotMajor, gotMinor, err := ParseVersion(versionStr)
	if err != nil {
		return err
	}
	if gotMajor < major || (gotMajor == major && gotMinor < minor) {
		return fmt.Errorf("OpenGL %d.%d+ required, got version: %s", major, minor, versionStr)
	}
	return nil
}

func orNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return s
}
