package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/iman-school/caseload/model"
)

// Seeder handles slot seeding operations
type Seeder struct {
	storage SlotStorage
	slot    string
}

// NewSeeder creates a new seeder instance
func NewSeeder(storage SlotStorage, slot string) *Seeder {
	return &Seeder{storage: storage, slot: slot}
}

// SeedAll writes the demo roster unless the slot already holds data (or force is set)
func (s *Seeder) SeedAll(ctx context.Context, now time.Time, force bool) error {
	log.Println("🌱 Starting slot seeding...")

	if !force {
		_, err := s.storage.Read(ctx, s.slot)
		if err == nil {
			log.Println("⏭️  Slot already holds data, skipping...")
			return nil
		}
		if !errors.Is(err, ErrSlotNotFound) {
			return fmt.Errorf("failed to check slot: %w", err)
		}
	}

	students := DemoStudents(now)
	payload, err := json.Marshal(students)
	if err != nil {
		return fmt.Errorf("failed to encode demo students: %w", err)
	}
	if err := s.storage.Write(ctx, s.slot, payload); err != nil {
		return fmt.Errorf("failed to seed slot: %w", err)
	}

	log.Printf("✅ Seeded %d demo students into slot %q\n", len(students), s.slot)
	return nil
}

// DemoStudents returns a small roster with every section populated
func DemoStudents(now time.Time) []model.Student {
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format(model.DateLayout) }

	first := model.NewStudent(now)
	first.PersonalInfo.FullName = "أحمد علي"
	first.PersonalInfo.StudentID = "S-1001"
	first.PersonalInfo.DOB = now.AddDate(-9, -2, 0).Format(model.DateLayout)
	first.PersonalInfo.Grade = "الصف الثالث"
	first.PersonalInfo.ParentContact = "0500000001"
	first.MedicalDiagnosis.PrimaryDiagnosis = "اضطراب طيف التوحد"
	first.MedicalDiagnosis.DiagnosingEntity = "مركز التشخيص المبكر"
	first.MedicalDiagnosis.DiagnosisDate = now.AddDate(-4, 0, 0).Format(model.DateLayout)
	first.CaseStudy.Strengths = "ذاكرة بصرية قوية، يحب الأرقام"
	first.CaseStudy.Challenges = "صعوبة في المبادرة بالتواصل"
	first.Assessments.AcademicSkills = model.AssessmentArea{Level: 3, Notes: "يقرأ كلمات بسيطة"}
	first.Assessments.SocialSkills = model.AssessmentArea{Level: 2, Notes: "يلعب بجانب الأقران"}
	first.SessionLogs = []model.SessionLog{
		{ID: uuid.NewString(), Date: day(-2), Time: "10:00", Duration: 45, Notes: "تدريب على تبادل الأدوار في اللعب"},
		{ID: uuid.NewString(), Date: day(-9), Time: "09:30", Duration: 40, Notes: "مطابقة الصور بالكلمات"},
		{ID: uuid.NewString(), Date: day(-40), Time: "11:00", Duration: 30, Notes: "جلسة تقييم أولية"},
	}
	first.UpcomingSessions = []model.UpcomingSession{
		{ID: uuid.NewString(), Date: day(3), Time: "10:00", Duration: 45},
	}
	first.AchievedGoals = []model.AchievedGoal{
		{
			ID:           uuid.NewString(),
			Description:  "يطلب المساعدة بجملة من كلمتين",
			AchievedAt:   now.AddDate(0, 0, -5).UTC(),
			GoalType:     model.GoalTypeLanguage,
			MasteryLevel: model.MasteryAdvanced,
		},
	}

	second := model.NewStudent(now.Add(time.Millisecond))
	second.PersonalInfo.FullName = "سارة محمد"
	second.PersonalInfo.StudentID = "S-1002"
	second.PersonalInfo.DOB = now.AddDate(-7, 0, 3).Format(model.DateLayout)
	second.PersonalInfo.Grade = "الصف الأول"
	second.MedicalDiagnosis.PrimaryDiagnosis = "صعوبات التعلم"
	second.Assessments.AcademicSkills = model.AssessmentArea{Level: 2, Notes: "تخلط بين الحروف المتشابهة"}
	second.SessionLogs = []model.SessionLog{
		{ID: uuid.NewString(), Date: day(-1), Time: "12:00", Duration: 30, Notes: "تمييز الحروف ب ت ث"},
	}

	students := []model.Student{first, second}
	for i := range students {
		students[i].Normalize()
	}
	return students
}
