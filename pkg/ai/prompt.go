package ai

import "strings"

// BuildEvaluationPrompt assembles the single instruction text sent to the
// model. The structure is fixed: role framing, rubric, submission, optional
// model answer, then grading and output-format instructions. The grading
// instructions are deliberately not configurable so model behaviour stays
// consistent across evaluations.
func BuildEvaluationPrompt(submissionText, rubricText, modelAnswerText string) string {
	builder := strings.Builder{}
	builder.WriteString("You are an education expert grading a student assignment. ")
	builder.WriteString("Evaluate the student's submission fairly against the provided rubric")
	if strings.TrimSpace(modelAnswerText) != "" {
		builder.WriteString(" and model answer")
	}
	builder.WriteString(".\n")

	builder.WriteString("\n# Rubric\n")
	builder.WriteString(rubricText)

	builder.WriteString("\n\n# Student Submission\n")
	builder.WriteString(submissionText)

	if strings.TrimSpace(modelAnswerText) != "" {
		builder.WriteString("\n\n# Model Answer\n")
		builder.WriteString(modelAnswerText)
	}

	builder.WriteString("\n\n# Grading Instructions\n")
	builder.WriteString("1. Assess the submission objectively against the rubric.\n")
	builder.WriteString("2. Compare the submission with the model answer, noting similarities and differences.\n")
	builder.WriteString("3. Consider the student's understanding, creativity, and logical structure.\n")
	builder.WriteString("4. Assign exactly one final grade from: A, B, C, D, F.\n")
	builder.WriteString("5. Provide concrete feedback for improvement.\n")

	builder.WriteString("\n# Response Format\n")
	builder.WriteString("Respond with a JSON object containing exactly two fields:\n")
	builder.WriteString("{\n  \"grade\": \"one of A/B/C/D/F\",\n  \"comments\": \"detailed feedback and suggested improvements\"\n}\n")
	builder.WriteString("Respond with the JSON object only. Do not include any prose outside it.\n")

	return builder.String()
}
