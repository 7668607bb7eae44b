package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"

	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/domain/report"
	"github.com/aurawell/aura/internal/app/services/companion"
	"github.com/aurawell/aura/pkg/logger"
)

const (
	textModel  = "gemini-2.5-flash"
	taskModel  = "gemini-2.5-pro"
	imageModel = "imagen-4.0-generate-001"
)

const companionInstruction = `You are Aura, a friendly and supportive university wellness companion chatting with a student. Be empathetic and concise.

IMPORTANT: When a student asks for help, seems distressed, or mentions needing resources, you MUST provide them with the relevant information from the 'RESOURCES' section below. Be proactive in offering this help. Format it clearly in your response.

--- RESOURCES ---

**Emergency & Crisis Resources**
- Life-Threatening Emergency: Call 911
- 988 Suicide & Crisis Lifeline: Call or text 988
- Crisis After Hours: Call 940-565-2741, then choose Option 1

**On-Campus Resources (University of North Texas)**
- Counseling & Crisis Services: Call 940-565-2741 or email counselingandtestingservices@unt.edu (Mon-Fri, 8 AM-5 PM)
- Walk-In Crisis: Visit Chestnut Hall, Suite 311 (Mon-Fri, 8 AM-5 PM)
- UNT Care Team: studentaffairs.unt.edu/dean-of-students/programs-and-services/care-team/

**Community Mental Health Resources**
- Dallas Suicide and Crisis Center: 214-828-1000
- Denton County MHMR Center: 940-381-5000 (Crisis Hotline: 800-762-0157)
---`

// Gemini backs every model-assisted feature: task generation, submission
// review, stats extraction, report summaries, avatar rendering and the
// companion chat.
type Gemini struct {
	client *genai.Client
	log    *logger.Logger
}

// NewGemini connects to the Gemini API with the given key.
func NewGemini(ctx context.Context, apiKey string, log *logger.Logger) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if log == nil {
		log = logger.NewDefault("ai")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, log: log}, nil
}

// GenerateTasks asks the model for three wellness tasks that complement the
// ones already assigned. On any backend or parse failure it falls back to a
// fixed, known-good set so the journal flow never stalls on the model.
func (g *Gemini) GenerateTasks(ctx context.Context, existing []string) ([]day.TaskInput, error) {
	prompt := fmt.Sprintf(`You are Aura, a supportive AI wellness companion. Create a list of exactly 3 simple, distinct, and actionable wellness tasks for a university student.
The student has already been assigned these tasks today: %q.
Suggest different and complementary tasks.

For each task, provide a "task" description and a "type". The type MUST be one of:
- 'writing' (for journaling/reflection)
- 'food_image' (for meals)
- 'activity_image' (for exercise, walks, or physical activities)

Ensure a variety of types in your response.`, strings.Join(existing, ", "))

	schema := &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"task": {Type: genai.TypeString, Description: "A single, actionable wellness task."},
				"type": {Type: genai.TypeString, Description: "One of 'writing', 'food_image', or 'activity_image'."},
			},
			Required: []string{"task", "type"},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, taskModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		g.log.WithError(err).Warn("task generation failed, using fallback set")
		return fallbackTasks(), nil
	}

	var raw []struct {
		Task string `json:"task"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &raw); err != nil || len(raw) == 0 {
		g.log.WithError(err).Warn("task generation returned malformed payload, using fallback set")
		return fallbackTasks(), nil
	}

	tasks := make([]day.TaskInput, 0, len(raw))
	for _, item := range raw {
		tasks = append(tasks, day.TaskInput{Text: item.Task, Type: day.ParseTaskType(item.Type)})
	}
	return tasks, nil
}

func fallbackTasks() []day.TaskInput {
	return []day.TaskInput{
		{Text: "Take a 10-minute walk outside and take a picture of something you find interesting.", Type: day.TaskActivityImage},
		{Text: "Write down three things you are grateful for today.", Type: day.TaskWriting},
		{Text: "Prepare and eat a healthy snack, and share a photo of it.", Type: day.TaskFoodImage},
	}
}

// VerifyWriting reviews a journaling submission and returns encouragement.
func (g *Gemini) VerifyWriting(ctx context.Context, taskText, userInput string) (string, error) {
	prompt := fmt.Sprintf(`You are Aura, a supportive AI wellness companion. A user was given the wellness task: %q.

They submitted the following text as their completion:
---
%s
---

Please provide a short, positive, and encouraging feedback message acknowledging their effort. Do not ask questions. Just provide a single paragraph of feedback.`, taskText, userInput)

	resp, err := g.client.Models.GenerateContent(ctx, textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", wrap("verify writing", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// VerifyImage judges whether an uploaded photo genuinely completes the task.
// A backend failure is reported as a rejection with generic feedback rather
// than an error, so a flaky model never accidentally credits a task.
func (g *Gemini) VerifyImage(ctx context.Context, taskText string, image []byte, mimeType string) (string, bool, error) {
	prompt := fmt.Sprintf(`You are Aura, a supportive but discerning AI wellness companion. A user was given the wellness task: %q. They uploaded an image as proof of completion.

Your job is to:
1. Evaluate: Determine if the image is a genuine and relevant submission for the task.
   - For a 'food' task, it must be an image of food/drink.
   - For an 'activity' task (like a walk or exercise), it must show a relevant scene (e.g., outdoors, a park, gym equipment, sportswear, a person exercising).
   - A completely random image (like a book, a keyboard, a blank wall, a screenshot of a desktop) is NOT a valid completion.
2. Respond: Provide a JSON response with two keys: "isComplete" (boolean) and "feedback" (string).

If the image IS a valid completion: set "isComplete" to true and write a short, positive, and encouraging "feedback" message commenting on what you see.
If the image is NOT a valid completion: set "isComplete" to false and write a gentle but clear "feedback" message explaining why the image doesn't seem to match the task, encouraging the user to try again with a different photo.

Be supportive but firm about the task requirements.`, taskText)

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(prompt),
	}, genai.RoleUser)}

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isComplete": {Type: genai.TypeBoolean},
			"feedback":   {Type: genai.TypeString},
		},
		Required: []string{"isComplete", "feedback"},
	}

	resp, err := g.client.Models.GenerateContent(ctx, textModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		g.log.WithError(err).Warn("image verification failed")
		return "Aura had trouble analyzing your image. Please check your connection and try again.", false, nil
	}

	var result struct {
		IsComplete bool   `json:"isComplete"`
		Feedback   string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &result); err != nil {
		g.log.WithError(err).Warn("image verification returned malformed payload")
		return "Aura had trouble analyzing your image. Please check your connection and try again.", false, nil
	}
	return result.Feedback, result.IsComplete, nil
}

// ExtractStats reads steps, calories and sleep hours from a fitness-app
// screenshot. Missing values come back as zero.
func (g *Gemini) ExtractStats(ctx context.Context, image []byte, mimeType string) (day.Stats, error) {
	prompt := `Analyze the provided image, which is likely a screenshot from a health or fitness tracking app. Your task is to extract three specific numerical values:
1. Total steps taken.
2. Active calories burned (look for terms like 'Active Calories', 'kcal', or just 'calories').
3. Sleep duration in hours (look for 'Time Asleep', 'Duration', or similar; it can be a decimal like 7.5 or in 'Xh Ym' format).

Carefully read all text and numbers in the image to find these values. If sleep is in hours and minutes, convert it to a decimal number of hours (e.g., 7h 30m becomes 7.5).

Respond with a JSON object containing three keys: "steps", "calories", and "sleepDuration".
- If a value is found, provide it as a number.
- If a specific value cannot be found in the image, use 0 as its value.
- Do not include commas or formatting in the numbers.`

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(prompt),
	}, genai.RoleUser)}

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"steps":         {Type: genai.TypeNumber},
			"calories":      {Type: genai.TypeNumber},
			"sleepDuration": {Type: genai.TypeNumber},
		},
		Required: []string{"steps", "calories", "sleepDuration"},
	}

	resp, err := g.client.Models.GenerateContent(ctx, textModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return day.Stats{}, wrap("extract stats", err)
	}

	var result struct {
		Steps         float64 `json:"steps"`
		Calories      float64 `json:"calories"`
		SleepDuration float64 `json:"sleepDuration"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &result); err != nil {
		return day.Stats{}, wrap("extract stats", fmt.Errorf("malformed payload: %w", err))
	}
	return day.Stats{
		Steps:      int(math.Round(result.Steps)),
		Calories:   int(math.Round(result.Calories)),
		SleepHours: result.SleepDuration,
	}, nil
}

// Summarize produces the weekly report narrative and the model's own score
// take. When the backend is unavailable it returns an encouraging default.
func (g *Gemini) Summarize(ctx context.Context, week []report.DaySummary, completed, total int, today day.Stats) (report.AISummary, error) {
	history, err := json.Marshal(week)
	if err != nil {
		return report.AISummary{}, wrap("summarize", err)
	}

	prompt := fmt.Sprintf(`You are Aura, an AI wellness companion. Analyze the user's past week of data and provide a short, positive, and encouraging summary, along with a calculated "Aura Score" out of 100.

**Data Provided:**
- **Weekly History:** %s
- **Today's Task Completion:** %d out of %d tasks.
- **Today's Stats:** %d steps, %d calories, %g hours of sleep.

**Your Tasks:**
1. Calculate the Aura Score: create a score from 0-100. Base it on:
   - Task Consistency (60%% weight): the average task completion rate over the week.
   - Activity Level (40%% weight): average steps, calories, and sleep. Consider goals of 8,000 steps, 300 calories, and 8 hours of sleep per day as a good baseline.
   - Combine these factors into a single score.
2. Write the Summary:
   - Keep it to 2-3 encouraging sentences.
   - Start by highlighting a key achievement.
   - Mention one area for gentle focus, framed positively.
   - Do not be negative or overly critical. The tone is supportive.

**Response Format:**
Respond with a JSON object with two keys: "summary" (string) and "score" (number). The score must be a whole number between 0 and 100.`,
		history, completed, total, today.Steps, today.Calories, today.SleepHours)

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {Type: genai.TypeString},
			"score":   {Type: genai.TypeNumber},
		},
		Required: []string{"summary", "score"},
	}

	resp, err := g.client.Models.GenerateContent(ctx, textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		g.log.WithError(err).Warn("report summary failed, using default")
		return defaultSummary(), nil
	}

	var result struct {
		Summary string  `json:"summary"`
		Score   float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &result); err != nil || result.Summary == "" {
		g.log.WithError(err).Warn("report summary returned malformed payload, using default")
		return defaultSummary(), nil
	}
	return report.AISummary{Summary: result.Summary, Score: int(math.Round(result.Score))}, nil
}

func defaultSummary() report.AISummary {
	return report.AISummary{
		Summary: "I'm having a little trouble analyzing your week, but I can see you're putting in the effort and that's what truly matters. Keep going!",
		Score:   75,
	}
}

// GenerateAvatar renders a stylized avatar from an uploaded photo. It first
// asks the text model to describe the person, then feeds that description to
// the image model. Returns PNG bytes.
func (g *Gemini) GenerateAvatar(ctx context.Context, image []byte, mimeType string) ([]byte, error) {
	describeContents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText("Describe the person in this image in detail for an artist to create a stylized, friendly, and supportive avatar. Focus on hair color and style, face shape, gender expression, and key features. Keep it concise."),
	}, genai.RoleUser)}

	described, err := g.client.Models.GenerateContent(ctx, textModel, describeContents, nil)
	if err != nil {
		return nil, wrap("describe avatar photo", err)
	}

	prompt := fmt.Sprintf("A friendly and supportive 3D-style animated avatar for a mental health app. %s. Cheerful expression, simple gradient background, Pixar style.", strings.TrimSpace(described.Text()))

	imgResp, err := g.client.Models.GenerateImages(ctx, imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, wrap("generate avatar", err)
	}
	if len(imgResp.GeneratedImages) == 0 || imgResp.GeneratedImages[0].Image == nil {
		return nil, wrap("generate avatar", fmt.Errorf("no image returned"))
	}
	return imgResp.GeneratedImages[0].Image.ImageBytes, nil
}

// Chat answers one companion turn given the conversation so far.
func (g *Gemini) Chat(ctx context.Context, history []companion.Turn, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == companion.RoleAura {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := g.client.Models.GenerateContent(ctx, textModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(companionInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", wrap("chat", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
