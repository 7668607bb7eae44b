package app

import (
	"context"

	"github.com/aurawell/aura/internal/app/domain/community"
	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/domain/profile"
)

// SeedDefaults loads the demo dataset: a partially filled week for Alex,
// default targets, a little received aura and the community roster. Intended
// for fresh in-memory sessions; seeding an already-populated store fails on
// the first duplicate day.
func SeedDefaults(ctx context.Context, stores Stores) error {
	days := []day.Record{
		{
			Date:  "2025-10-20",
			Stats: day.Stats{Steps: 6500, Calories: 280, SleepHours: 7.2},
			Tasks: []day.Task{
				{
					ID:        1001,
					Text:      "Take a 15-minute walk around campus and capture a photo of something that makes you smile.",
					Type:      day.TaskActivityImage,
					Completed: true,
					Feedback:  "What a lovely photo! I can see you found something beautiful during your walk. Taking time to notice the positive things around us is such a wonderful practice for mental wellness.",
					UserInput: "image:image/jpeg",
				},
				{
					ID:        1002,
					Text:      "Write down three things you're grateful for today and why they matter to you.",
					Type:      day.TaskWriting,
					Completed: true,
					Feedback:  "Thank you for sharing such heartfelt gratitude! It's beautiful to see how you appreciate both the big and small things in your life. Practicing gratitude like this can really boost your mood and perspective.",
					UserInput: "1. My morning coffee - it gives me energy and comfort to start the day right. 2. My study group - they help me understand difficult concepts and make learning fun. 3. Video call with my family - even though we're far apart, technology lets us stay connected.",
				},
				{
					ID:   1003,
					Text: "Prepare a healthy snack and share a photo of your colorful creation.",
					Type: day.TaskFoodImage,
				},
			},
		},
		{
			Date:  "2025-10-21",
			Stats: day.Stats{Steps: 9200, Calories: 420, SleepHours: 8.5},
			Tasks: []day.Task{
				{
					ID:        2001,
					Text:      "Do 10 minutes of stretching or yoga and take a photo of your setup.",
					Type:      day.TaskActivityImage,
					Completed: true,
					Feedback:  "Excellent work on prioritizing your physical wellness! I can see you created a peaceful space for your stretching routine. Regular movement like this is so important for both your body and mind.",
					UserInput: "image:image/jpeg",
				},
				{
					ID:   2002,
					Text: "Reflect on one challenge you faced today and how you overcame it.",
					Type: day.TaskWriting,
				},
				{
					ID:        2003,
					Text:      "Take a photo of a nutritious meal you enjoyed today.",
					Type:      day.TaskFoodImage,
					Completed: true,
					Feedback:  "That looks absolutely delicious and nutritious! I love seeing how you're nourishing your body with such colorful, healthy foods. Good nutrition is such an important foundation for feeling your best.",
					UserInput: "image:image/jpeg",
				},
			},
		},
		{Date: "2025-10-22"},
		{Date: "2025-10-23"},
	}

	for _, rec := range days {
		if _, err := stores.Days.SeedDay(ctx, rec); err != nil {
			return err
		}
	}

	if _, err := stores.Targets.SetTargets(ctx, profile.Targets{Steps: 8000, Calories: 400, SleepHours: 8}); err != nil {
		return err
	}
	if _, err := stores.Ledger.AddReceived(ctx, 15); err != nil {
		return err
	}
	if _, err := stores.Profile.SetProfile(ctx, profile.User{
		Name:      "Alex",
		AvatarURL: "https://picsum.photos/seed/user/100/100",
	}); err != nil {
		return err
	}

	members := []community.Member{
		{Name: "Sarah J.", AvatarURL: "https://picsum.photos/seed/sarah/100/100", Status: "Just finished a 5k run! Feeling energized for the week. ✨", AuraScore: 88},
		{Name: "Mike R.", AvatarURL: "https://picsum.photos/seed/mike/100/100", Status: "Took a break for some mindful breathing. It really helps clear the head.", AuraScore: 72},
		{Name: "Chloe W.", AvatarURL: "https://picsum.photos/seed/chloe/100/100", Status: "Trying out a new healthy recipe for dinner tonight. Wish me luck!", AuraScore: 91},
		{Name: "David L.", AvatarURL: "https://picsum.photos/seed/david/100/100", Status: "Spent an hour reading a book instead of scrolling. Highly recommend!", AuraScore: 65},
		{Name: "Emily T.", AvatarURL: "https://picsum.photos/seed/emily/100/100", Status: "Grateful for the sunshine today. A long walk in the park was just what I needed.", AuraScore: 85},
		{Name: "Jordan P.", AvatarURL: "https://picsum.photos/seed/jordan/100/100", Status: "Starting a new journaling habit. Any tips for staying consistent?", AuraScore: 79},
	}
	for _, m := range members {
		if _, err := stores.Members.CreateMember(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
