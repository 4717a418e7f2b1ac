package rules

// camelotWheel maps (pitch class, mode) to wheel notation. Mode 1 is
// major (outer B ring), mode 0 minor (inner A ring).
var camelotWheel = map[[2]int]string{
	{0, 1}: "8B", {1, 1}: "3B", {2, 1}: "10B", {3, 1}: "5B",
	{4, 1}: "12B", {5, 1}: "7B", {6, 1}: "2B", {7, 1}: "9B",
	{8, 1}: "4B", {9, 1}: "11B", {10, 1}: "6B", {11, 1}: "1B",

	{0, 0}: "5A", {1, 0}: "12A", {2, 0}: "7A", {3, 0}: "2A",
	{4, 0}: "9A", {5, 0}: "4A", {6, 0}: "11A", {7, 0}: "6A",
	{8, 0}: "1A", {9, 0}: "8A", {10, 0}: "3A", {11, 0}: "10A",
}

// CamelotKey converts a raw pitch class (0-11) and mode (0 minor,
// 1 major) to wheel notation, or "" for out-of-range inputs.
func CamelotKey(pitchClass, mode int) string {
	return camelotWheel[[2]int{pitchClass, mode}]
}

// camelotKeys is the full wheel, used by the fallback generator.
var camelotKeys = []string{
	"1A", "1B", "2A", "2B", "3A", "3B", "4A", "4B",
	"5A", "5B", "6A", "6B", "7A", "7B", "8A", "8B",
	"9A", "9B", "10A", "10B", "11A", "11B", "12A", "12B",
}
