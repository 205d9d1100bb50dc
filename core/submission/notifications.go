package submission

import (
	"context"
	"net/mail"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/course"
)

func (svc *service) notifyProjectReceived(ps ProjectSubmission) {
	requester := mail.Address{Name: ps.Name, Address: ps.Email}
	msgs := []*core.EmailMessage{{
		To:           []mail.Address{requester},
		Subject:      "We received your project inquiry",
		TemplateName: "project_received",
		TemplateData: map[string]interface{}{"Submission": ps},
	}}
	if svc.adminEmail.Address != "" {
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{svc.adminEmail},
			Subject:      "New project inquiry from " + ps.Name,
			TemplateName: "admin_new_submission",
			TemplateData: map[string]interface{}{
				"Kind":  "project inquiry",
				"Name":  ps.Name,
				"Email": ps.Email,
				"ID":    ps.ID,
			},
		})
	}
	svc.mailSvc.SendMessages(msgs...)
}

func (svc *service) notifyRegistrationReceived(cr CourseRegistration, c course.Course) {
	registrant := mail.Address{Name: cr.Name, Address: cr.Email}
	msgs := []*core.EmailMessage{{
		To:           []mail.Address{registrant},
		Subject:      "We received your registration for " + c.Title,
		TemplateName: "registration_received",
		TemplateData: map[string]interface{}{"Registration": cr, "Course": c},
	}}
	if svc.adminEmail.Address != "" {
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{svc.adminEmail},
			Subject:      "New registration for " + c.Title,
			TemplateName: "admin_new_submission",
			TemplateData: map[string]interface{}{
				"Kind":  "course registration (" + c.Title + ")",
				"Name":  cr.Name,
				"Email": cr.Email,
				"ID":    cr.ID,
			},
		})
	}
	svc.mailSvc.SendMessages(msgs...)
}

func (svc *service) notifyRegistrationStatus(ctx context.Context, cr CourseRegistration) {
	courseTitle := cr.CourseID
	if c, err := svc.courses.Get(ctx, cr.CourseID); err == nil {
		courseTitle = c.Title
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: cr.Name, Address: cr.Email}},
		Subject:      "Your registration for " + courseTitle,
		TemplateName: "registration_status",
		TemplateData: map[string]interface{}{
			"Name":     cr.Name,
			"Course":   courseTitle,
			"Approved": cr.Status == RegistrationApproved,
		},
	})
}
