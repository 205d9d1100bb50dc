package submission

import (
	"time"

	"github.com/trezcool/itsite/core"
)

// ProjectStatus is the workflow state of a ProjectSubmission.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectRejected   ProjectStatus = "rejected"
)

var ProjectStatuses = []ProjectStatus{ProjectPending, ProjectInProgress, ProjectCompleted, ProjectRejected}

func (s ProjectStatus) Valid() bool {
	for _, status := range ProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// RegistrationStatus is the workflow state of a CourseRegistration.
type RegistrationStatus string

const (
	RegistrationPendingPayment      RegistrationStatus = "pending_payment"
	RegistrationPendingVerification RegistrationStatus = "pending_verification"
	RegistrationApproved            RegistrationStatus = "approved"
	RegistrationRejected            RegistrationStatus = "rejected"
	RegistrationCompleted           RegistrationStatus = "completed"
)

var RegistrationStatuses = []RegistrationStatus{
	RegistrationPendingPayment,
	RegistrationPendingVerification,
	RegistrationApproved,
	RegistrationRejected,
	RegistrationCompleted,
}

func (s RegistrationStatus) Valid() bool {
	for _, status := range RegistrationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// VerifiedStatus maps a payment verification outcome to the status it sets.
func VerifiedStatus(verified bool) RegistrationStatus {
	if verified {
		return RegistrationApproved
	}
	return RegistrationRejected
}

type ProjectSubmission struct {
	ID          int64         `json:"id"`
	UserID      *int64        `json:"userId"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Company     *string       `json:"company"`
	ProjectType *string       `json:"projectType"`
	BudgetRange *string       `json:"budgetRange"`
	Timeline    *string       `json:"timeline"`
	Description string        `json:"description"`
	FileURL     *string       `json:"fileUrl"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type CourseRegistration struct {
	ID                int64              `json:"id"`
	CourseID          string             `json:"courseId"`
	UserID            *int64             `json:"userId"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Phone             *string            `json:"phone"`
	ExperienceLevel   *string            `json:"experienceLevel"`
	PreferredSchedule *string            `json:"preferredSchedule"`
	Message           *string            `json:"message"`
	PaymentReceiptURL string             `json:"paymentReceiptUrl"`
	Status            RegistrationStatus `json:"status"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// NewProjectSubmission is the project inquiry form. Optional fields are left blank when absent.
type NewProjectSubmission struct {
	Name        string `json:"name" form:"name" validate:"required,notblank,max=200"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Company     string `json:"company" form:"company" validate:"max=200"`
	ProjectType string `json:"projectType" form:"projectType" validate:"max=100"`
	BudgetRange string `json:"budgetRange" form:"budgetRange" validate:"max=100"`
	Timeline    string `json:"timeline" form:"timeline" validate:"max=100"`
	Description string `json:"description" form:"description" validate:"required,notblank,max=10000"`
}

func (np *NewProjectSubmission) Validate() error {
	np.Name = core.CleanString(np.Name)
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.Company = core.CleanString(np.Company)
	np.ProjectType = core.CleanString(np.ProjectType)
	np.BudgetRange = core.CleanString(np.BudgetRange)
	np.Timeline = core.CleanString(np.Timeline)
	np.Description = core.CleanString(np.Description)
	return core.Validate.Struct(np)
}

// NewCourseRegistration is the course registration form; the payment receipt travels as a file.
type NewCourseRegistration struct {
	CourseID          string `json:"courseId" form:"courseId" validate:"required,notblank"`
	Name              string `json:"name" form:"name" validate:"required,notblank,max=200"`
	Email             string `json:"email" form:"email" validate:"required,email"`
	Phone             string `json:"phone" form:"phone" validate:"max=50"`
	ExperienceLevel   string `json:"experienceLevel" form:"experienceLevel" validate:"max=100"`
	PreferredSchedule string `json:"preferredSchedule" form:"preferredSchedule" validate:"max=200"`
	Message           string `json:"message" form:"message" validate:"max=5000"`
}

func (nr *NewCourseRegistration) Validate() error {
	nr.CourseID = core.CleanString(nr.CourseID, true /* lower */)
	nr.Name = core.CleanString(nr.Name)
	nr.Email = core.CleanString(nr.Email, true /* lower */)
	nr.Phone = core.CleanString(nr.Phone)
	nr.ExperienceLevel = core.CleanString(nr.ExperienceLevel)
	nr.PreferredSchedule = core.CleanString(nr.PreferredSchedule)
	nr.Message = core.CleanString(nr.Message)
	return core.Validate.Struct(nr)
}

type UpdateProjectStatus struct {
	ID     int64         `json:"id" validate:"required"`
	Status ProjectStatus `json:"status" validate:"required,projectstatus"`
}

func (us UpdateProjectStatus) Validate() error { return core.Validate.Struct(us) }

type UpdateRegistrationStatus struct {
	ID     int64              `json:"id" validate:"required"`
	Status RegistrationStatus `json:"status" validate:"required,registrationstatus"`
}

func (us UpdateRegistrationStatus) Validate() error { return core.Validate.Struct(us) }

type VerifyPayment struct {
	ID       int64 `json:"id" validate:"required"`
	Verified *bool `json:"verified" validate:"required"`
}

func (vp VerifyPayment) Validate() error { return core.Validate.Struct(vp) }

type ProjectFilter struct {
	Status ProjectStatus `query:"projectStatus"`
	UserID *int64        `query:"-"`
}

type RegistrationFilter struct {
	Status   RegistrationStatus `query:"registrationStatus"`
	CourseID string             `query:"courseId"`
	UserID   *int64             `query:"-"`
}

// Submissions is the admin dashboard's unfiltered view.
type Submissions struct {
	ProjectSubmissions  []ProjectSubmission  `json:"projectSubmissions"`
	CourseRegistrations []CourseRegistration `json:"courseRegistrations"`
}
