package gamification

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"sagrapp/backend/models"
)

// PercentComplete returns the share of a course's lessons the user has
// completed, 0..100. Each lesson counts once however many completed rows
// it has. Unknown courses and courses without lessons yield 0.
func PercentComplete(courseID uuid.UUID, courses []models.Course, progress []models.UserProgress) int {
	lessonCount := 0
	for i := range courses {
		if courses[i].ID == courseID {
			lessonCount = courses[i].LessonCount.Int()
			break
		}
	}
	if lessonCount <= 0 {
		return 0
	}

	done := make(map[uuid.UUID]struct{})
	for i := range progress {
		p := &progress[i]
		if p.CourseID == courseID && p.Completed {
			done[p.LessonID] = struct{}{}
		}
	}

	percent := int(math.Round(100 * float64(len(done)) / float64(lessonCount)))
	if percent > 100 {
		return 100
	}
	return percent
}

// ActiveCourse picks the course the user touched most recently. Courses are
// expected in display order; the first one is the default when there is no
// progress or the latest progress row points at an unknown course. Rows
// without a completion time sort as the oldest and ties keep input order.
func ActiveCourse(courses []models.Course, progress []models.UserProgress) *models.Course {
	if len(courses) == 0 {
		return nil
	}
	if len(progress) == 0 {
		return &courses[0]
	}

	sorted := make([]*models.UserProgress, len(progress))
	for i := range progress {
		sorted[i] = &progress[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return completedUnix(sorted[i]) > completedUnix(sorted[j])
	})

	recent := sorted[0].CourseID
	for i := range courses {
		if courses[i].ID == recent {
			return &courses[i]
		}
	}
	return &courses[0]
}

func completedUnix(p *models.UserProgress) int64 {
	if p.CompletedAt == nil {
		return math.MinInt64
	}
	return p.CompletedAt.UnixNano()
}

// CourseProgressList pairs every course with its completion percentage.
func CourseProgressList(courses []models.Course, progress []models.UserProgress) []models.CourseProgress {
	out := make([]models.CourseProgress, 0, len(courses))
	for i := range courses {
		out = append(out, models.CourseProgress{
			Course:          courses[i],
			PercentComplete: PercentComplete(courses[i].ID, courses, progress),
		})
	}
	return out
}
