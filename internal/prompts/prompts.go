// Package prompts assembles the natural-language prompts sent to the model.
// Builders are pure; the textual contracts (JSON-only output, forbidden
// characters, the scoring rubric) live here and nowhere else.
package prompts

import (
	"fmt"
	"strings"
)

// InterviewQuestions asks for exactly n questions for a role. The questions
// are read aloud by a voice assistant, so the prompt forbids characters that
// break speech synthesis.
func InterviewQuestions(position, description string, experience int, interviewType string, n int) string {
	return fmt.Sprintf(`You are an expert technical interviewer. Generate %d high-quality interview questions for the following job role.

Job Role: %s
Tech Stack/Description: %s
Experience Level: %d years
Interview Focus: %s

IMPORTANT CONSTRAINTS:
- Generate exactly %d questions
- Questions should be appropriate for %d years of experience
- Focus primarily on %s interview style
- Do NOT use special characters like /, *, #, @, or any markdown formatting
- Questions will be read by a voice assistant, so use only plain text
- Make questions clear, concise, and conversational
- Return ONLY valid JSON with this exact format:
  {"questions": ["question 1", "question 2"]}
- Do not wrap in code blocks.
- Do not explain.`,
		n, position, description, experience, interviewType, n, experience, interviewType)
}

// Stricter appends the re-prompt suffix used after a schema mismatch. One
// retry only; the caller decides.
func Stricter(prompt string) string {
	return prompt + `

YOUR PREVIOUS RESPONSE WAS NOT VALID JSON IN THE REQUIRED SHAPE.
Respond again with NOTHING but the JSON object described above: no prose,
no markdown fences, no extra keys.`
}

// Feedback builds the scoring prompt over a formatted transcript. The five
// categories are fixed; the parser rejects anything else.
func Feedback(transcript string) string {
	return fmt.Sprintf(`You are an AI interviewer analyzing a mock interview. Your task is to evaluate the candidate based on structured categories.
Be thorough and detailed in your analysis. Don't be lenient with the candidate. If there are mistakes or areas for improvement, point them out.

Transcript:
%s

Please score the candidate from 0 to 100 in the following areas.
Do not add categories other than the ones provided:
- Communication Skills
- Technical Knowledge
- Problem-Solving
- Cultural & Role Fit
- Confidence & Clarity

Return ONLY valid JSON with this exact format:
{
  "totalScore": number,
  "grade": "A" | "B" | "C" | "D" | "F",
  "categoryScores": [{"name": "string", "score": number, "comment": "string"}],
  "strengths": ["string"],
  "areasForImprovement": ["string"],
  "finalAssessment": "string"
}
Do not wrap in code blocks. Do not explain.`, transcript)
}

// Quiz asks for n multiple-choice questions tailored to industry and skills.
func Quiz(industry string, skills []string, n int) string {
	withSkills := ""
	if len(skills) > 0 {
		withSkills = fmt.Sprintf(" with expertise in %s", strings.Join(skills, ", "))
	}
	return fmt.Sprintf(`Generate %d technical interview questions for a %s professional%s.
Each question should be multiple choice with 4 options.

Return the response in this JSON format only, no additional text:
{"questions": [{"question": "string", "options": ["string","string","string","string"], "answer": "string", "isCorrect": false, "explanation": "string"}]}
The "answer" field must contain the correct option verbatim.`,
		n, industry, withSkills)
}

// ImprovementTip summarizes what to work on after wrong quiz answers.
func ImprovementTip(industry, wrongAnswers string) string {
	return fmt.Sprintf(`The user got the following %s questions wrong:

%s

Based on these mistakes, provide a concise, specific improvement tip under 2 sentences.
Focus on the knowledge gap, not the individual questions. Reply with plain text only.`,
		industry, wrongAnswers)
}

// IndustryInsights requests the market-insight payload for one industry,
// optionally tailored to a user's skills and experience.
func IndustryInsights(industry string, skills []string, experience *int) string {
	exp := "unknown"
	if experience != nil {
		exp = fmt.Sprintf("%d", *experience)
	}
	sk := "no specific skills"
	if len(skills) > 0 {
		sk = strings.Join(skills, ", ")
	}
	return fmt.Sprintf(`Analyze the current state of the %s industry and provide insights tailored to a professional with %s years of experience and expertise in the following skills: %s.
Return insights in ONLY the following JSON format without any additional notes or explanations:

{
  "salaryRanges": [
    {"role": "string", "min": number, "max": number, "median": number, "location": "string"}
  ],
  "growthRate": number,
  "demandLevel": "High" | "Medium" | "Low",
  "topSkills": ["skill1", "skill2"],
  "marketOutlook": "Positive" | "Neutral" | "Negative",
  "keyTrends": ["trend1", "trend2"],
  "recommendedSkills": ["skill1", "skill2"]
}

IMPORTANT: Return ONLY the JSON. No additional text, notes, or markdown formatting.
Include at least 5 common roles for salary ranges.
Growth rate should be a percentage.
Include at least 5 skills and trends.`, industry, exp, sk)
}

// CoverLetter writes a letter from the user's profile and a job posting.
func CoverLetter(jobTitle, companyName, jobDescription, industry string, experience *int, skills []string, bio string) string {
	exp := "unknown"
	if experience != nil {
		exp = fmt.Sprintf("%d", *experience)
	}
	return fmt.Sprintf(`Write a professional cover letter for a %s position at %s.

About the candidate:
- Industry: %s
- Years of Experience: %s
- Skills: %s
- Professional Background: %s

Job Description:
%s

Requirements:
1. Use a professional, enthusiastic tone
2. Highlight relevant skills and experience
3. Show understanding of the company's needs
4. Keep it concise (max 400 words)
5. Use proper business letter formatting in markdown
6. Include specific examples of achievements
7. Relate candidate's background to job requirements

Format the letter in markdown. Return only the letter.`,
		jobTitle, companyName, industry, exp, strings.Join(skills, ", "), bio, jobDescription)
}

// ImproveResume rewrites one résumé section in a stronger voice.
func ImproveResume(current, sectionType, industry string) string {
	return fmt.Sprintf(`As an expert resume writer, improve the following %s description for a %s professional.
Make it more impactful, quantifiable, and aligned with industry standards.
Current content: "%s"

Requirements:
1. Use action verbs
2. Include metrics and results where possible
3. Highlight relevant technical skills
4. Keep it concise but detailed
5. Focus on achievements over responsibilities
6. Use industry-specific keywords

Format the response as a single paragraph without any additional text or explanations.`,
		sectionType, industry, current)
}
