package recovery

import (
	"fmt"

	"github.com/google/uuid"

	"HabitPulse/internal/model"
)

// 微习惯生成：按习惯类目套用固定模板，未知类目回落到通用模板。

type microTemplate struct {
	name        string
	description string
	minutes     int
	steps       []string
}

var microTemplates = map[string]microTemplate{
	"fitness": {
		name:        "One minute of movement",
		description: "A single minute of any physical activity, right where you are",
		minutes:     1,
		steps: []string{
			"Stand up and stretch for 1 minute",
			"Do 5 bodyweight reps",
			"Move for 5 minutes",
			"Complete a 15 minute session",
		},
	},
	"mindfulness": {
		name:        "Three deep breaths",
		description: "Pause and take three slow, deliberate breaths",
		minutes:     1,
		steps: []string{
			"Take 3 deep breaths",
			"Sit quietly for 2 minutes",
			"Meditate for 5 minutes",
			"Complete a full 10 minute session",
		},
	},
	"learning": {
		name:        "Read one paragraph",
		description: "Open the material and read a single paragraph",
		minutes:     2,
		steps: []string{
			"Read one paragraph",
			"Read one page",
			"Study for 10 minutes",
			"Complete a full study block",
		},
	},
	"nutrition": {
		name:        "One glass of water",
		description: "Pour and drink a single glass of water",
		minutes:     1,
		steps: []string{
			"Drink one glass of water",
			"Add one vegetable to a meal",
			"Prepare one healthy meal",
			"Plan a full day of meals",
		},
	},
}

var defaultMicroTemplate = microTemplate{
	name:        "Two minute version",
	description: "Do the smallest possible version of this habit for two minutes",
	minutes:     2,
	steps: []string{
		"Do the 2 minute version",
		"Do the 5 minute version",
		"Do half of the original habit",
		"Return to the full habit",
	},
}

// GenerateMicroHabit 为习惯生成缩减版微习惯。
// 同类目输出的模板内容固定，只有 ID 每次不同。
func GenerateMicroHabit(habit *model.Habit) model.MicroHabit {
	tpl, ok := microTemplates[habit.Category]
	if !ok {
		tpl = defaultMicroTemplate
	}

	return model.MicroHabit{
		ID:                   uuid.NewString(),
		OriginalHabitID:      habit.PublicID,
		Name:                 tpl.name,
		Description:          fmt.Sprintf("%s (micro version of %q)", tpl.description, habit.Name),
		TimeRequiredMinutes:  tpl.minutes,
		ScalingSteps:         tpl.steps,
		Difficulty:           "minimal",
		MaintainsSameContext: true,
		SuccessRate:          0.8,
	}
}

// GenerateMicroHabitForCategory 不依赖具体习惯，按类目直接出模板
func GenerateMicroHabitForCategory(category string) model.MicroHabit {
	tpl, ok := microTemplates[category]
	if !ok {
		tpl = defaultMicroTemplate
	}

	return model.MicroHabit{
		ID:                   uuid.NewString(),
		Name:                 tpl.name,
		Description:          tpl.description,
		TimeRequiredMinutes:  tpl.minutes,
		ScalingSteps:         tpl.steps,
		Difficulty:           "minimal",
		MaintainsSameContext: true,
		SuccessRate:          0.8,
	}
}
