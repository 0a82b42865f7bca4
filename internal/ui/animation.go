package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// AnimationType names the short clip played after an accepted action
type AnimationType int

const (
	AnimNone AnimationType = iota
	AnimFeed
	AnimPlay
	AnimSleep
	AnimClean
	AnimHeal
	AnimScold
)

// Animation is the clip currently on screen. StartTime tags its ticks so a
// clip that was replaced ignores stale ones.
type Animation struct {
	Type      AnimationType
	Frame     int
	StartTime time.Time
}

// AnimationFrameDuration is how long each frame displays
const AnimationFrameDuration = 200 * time.Millisecond

// scene is one frame: a prop sliding toward the pet's face with an optional
// note printed under the face.
type scene struct {
	prop string
	gap  int
	face string
	note string
}

// String lays the scene out on a fixed three-line canvas.
func (s scene) String() string {
	row := "  "
	if s.prop != "" {
		row += s.prop + strings.Repeat(" ", s.gap)
	}
	indent := lipgloss.Width(row)
	row += s.face

	caption := ""
	if s.note != "" {
		caption = strings.Repeat(" ", indent) + s.note
	}
	return "\n" + row + "\n" + caption + "\n"
}

var animationScripts = map[AnimationType][]scene{
	AnimFeed: {
		{prop: "🥣", gap: 8, face: "😺"},
		{prop: "🥣", gap: 3, face: "😺"},
		{face: "😋", note: "chomp"},
		{face: "😸", note: "+18 hunger"},
	},
	AnimPlay: {
		{prop: "🧶", gap: 9, face: "😺"},
		{prop: "🧶", gap: 4, face: "🙀", note: "!"},
		{prop: "🧶", gap: 1, face: "😼"},
		{prop: "🧶", gap: 5, face: "😹", note: "bat"},
		{face: "😻", note: "again!"},
	},
	AnimSleep: {
		{prop: "🌙", gap: 6, face: "😺"},
		{prop: "🌙", gap: 6, face: "😪", note: "z"},
		{prop: "🌙", gap: 6, face: "😴", note: "z Z"},
		{prop: "🌙", gap: 6, face: "😴", note: "z Z z"},
	},
	AnimClean: {
		{prop: "🧹", gap: 8, face: "😿", note: "💩"},
		{prop: "🧹", gap: 3, face: "😿", note: "💩"},
		{prop: "🧹", face: "😺", note: "swish"},
		{face: "😸", note: "spotless"},
	},
	AnimHeal: {
		{prop: "🩹", gap: 8, face: "😿"},
		{prop: "🩹", gap: 3, face: "😿"},
		{prop: "🩹", face: "😺"},
		{face: "😺", note: "+25 health"},
		{face: "😸", note: "all better"},
	},
	AnimScold: {
		{prop: "☝", gap: 7, face: "😺"},
		{prop: "☝", gap: 2, face: "😾", note: "bad!"},
		{face: "😿", note: "sulking"},
	},
}

// GetAnimationFrame renders the current frame, holding the last one once the
// clip has run out
func GetAnimationFrame(anim Animation) string {
	frames := animationScripts[anim.Type]
	if len(frames) == 0 {
		return ""
	}
	i := anim.Frame
	if i >= len(frames) {
		i = len(frames) - 1
	}
	return frames[i].String()
}

// IsAnimationComplete reports whether every frame has been shown
func IsAnimationComplete(anim Animation) bool {
	return anim.Frame >= len(animationScripts[anim.Type])
}

// AnimationTotalFrames returns the number of frames for an animation type
func AnimationTotalFrames(animType AnimationType) int {
	return len(animationScripts[animType])
}
