package transform

// Preset names clients select with a single query flag. Badge is handled
// by the router (it was never implemented upstream) and has no Spec.
const (
	PresetEmoji   = "emoji"
	PresetAvatar  = "avatar"
	PresetPreview = "preview"
	PresetStatic  = "static"
	PresetBadge   = "badge"
)

// PresetSpec returns the transform parameters for a preset name.
func PresetSpec(name string) (Spec, bool) {
	switch name {
	case PresetEmoji:
		return Spec{MaxWidth: 128, MaxHeight: 128, Mode: ModeCover}, true
	case PresetAvatar:
		return Spec{MaxWidth: 320, MaxHeight: 320, Mode: ModeCover}, true
	case PresetPreview:
		return Spec{MaxWidth: 200, MaxHeight: 200, Mode: ModeFit}, true
	case PresetStatic:
		return Spec{MaxWidth: 498, MaxHeight: 422, Mode: ModeFit, Animation: AnimFirstFrame}, true
	default:
		return Spec{}, false
	}
}
