package extract

import "strings"

// instructionCues mark a sentence as a care instruction
var instructionCues = []string{"take", "avoid", "follow up", "return if", "call if", "monitor"}

// extractInstructions splits the text into sentences on period boundaries
// and returns, in source order, each sentence containing an instruction
// cue, trimmed of surrounding whitespace. A sentence is emitted once even
// if it contains several cues.
func extractInstructions(text string) []string {
	var instructions []string

	for _, sentence := range strings.Split(text, ".") {
		lower := strings.ToLower(sentence)
		for _, cue := range instructionCues {
			if strings.Contains(lower, cue) {
				instructions = append(instructions, strings.TrimSpace(sentence))
				break
			}
		}
	}

	return instructions
}
