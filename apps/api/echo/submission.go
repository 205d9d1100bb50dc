package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/submission"
)

const (
	projectFileField    = "attachment"
	paymentReceiptField = "paymentReceipt"
)

type submissionApi struct {
	auth          *authenticator
	svc           submission.ServiceInterface
	maxUploadSize int64
}

func registerSubmissionAPI(
	g, admin, me *echo.Group,
	session echo.MiddlewareFunc,
	auth *authenticator,
	svc submission.ServiceInterface,
	maxUploadSize int64,
) {
	api := submissionApi{auth: auth, svc: svc, maxUploadSize: maxUploadSize}

	// public intake; the session user, if any, owns the submission
	g.POST("/submit-project", api.submitProject, session)
	g.POST("/course-registration", api.submitCourseRegistration, session)

	admin.GET("/submissions", api.queryAll)
	admin.GET("/project-submissions/:id", api.retrieveProject)
	admin.GET("/course-registrations/:id", api.retrieveRegistration)
	admin.PATCH("/update-project-status", api.updateProjectStatus)
	admin.PATCH("/update-course-status", api.updateRegistrationStatus)
	admin.PATCH("/verify-payment", api.verifyPayment)

	me.GET("/project-submissions", api.queryOwnProjects)
	me.GET("/course-registrations", api.queryOwnRegistrations)
}

// Handlers

func (api *submissionApi) submitProject(ctx echo.Context) error {
	var data submission.NewProjectSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProjectSubmission")
	}
	// fail on the form fields before reading the file
	if err := data.Validate(); err != nil {
		return err
	}
	file, err := formUpload(ctx, projectFileField, api.maxUploadSize)
	if err != nil {
		return err
	}

	ps, err := api.svc.SubmitProject(ctx.Request().Context(), data, file, api.auth.getContextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "submitting project")
	}
	return ctx.JSON(http.StatusCreated, IDResponse{ID: ps.ID})
}

func (api *submissionApi) submitCourseRegistration(ctx echo.Context) error {
	var data submission.NewCourseRegistration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourseRegistration")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	receipt, err := formUpload(ctx, paymentReceiptField, api.maxUploadSize)
	if err != nil {
		return err
	}

	cr, err := api.svc.SubmitCourseRegistration(ctx.Request().Context(), data, receipt, api.auth.getContextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "submitting course registration")
	}
	return ctx.JSON(http.StatusCreated, IDResponse{ID: cr.ID})
}

func (api *submissionApi) queryAll(ctx echo.Context) error {
	pf, err := projectFilter(ctx)
	if err != nil {
		return err
	}
	rf, err := registrationFilter(ctx)
	if err != nil {
		return err
	}

	subs, err := api.svc.QueryAll(ctx.Request().Context(), pf, rf)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) retrieveProject(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	ps, err := api.svc.GetProjectSubmission(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting project submission")
	}
	return ctx.JSON(http.StatusOK, ps)
}

func (api *submissionApi) retrieveRegistration(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	cr, err := api.svc.GetCourseRegistration(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting course registration")
	}
	return ctx.JSON(http.StatusOK, cr)
}

func (api *submissionApi) updateProjectStatus(ctx echo.Context) error {
	var data submission.UpdateProjectStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProjectStatus")
	}
	ps, err := api.svc.UpdateProjectStatus(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating project status")
	}
	return ctx.JSON(http.StatusOK, ps)
}

func (api *submissionApi) updateRegistrationStatus(ctx echo.Context) error {
	var data submission.UpdateRegistrationStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRegistrationStatus")
	}
	cr, err := api.svc.UpdateRegistrationStatus(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating registration status")
	}
	return ctx.JSON(http.StatusOK, cr)
}

func (api *submissionApi) verifyPayment(ctx echo.Context) error {
	var data submission.VerifyPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyPayment")
	}
	cr, err := api.svc.VerifyPayment(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "verifying payment")
	}
	return ctx.JSON(http.StatusOK, cr)
}

func (api *submissionApi) queryOwnProjects(ctx echo.Context) error {
	pf, err := projectFilter(ctx)
	if err != nil {
		return err
	}
	if pf.UserID = api.auth.getContextUserID(ctx); pf.UserID == nil {
		return errUnauthorized
	}

	subs, err := api.svc.QueryProjectSubmissions(ctx.Request().Context(), pf)
	if err != nil {
		return errors.Wrap(err, "querying own project submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) queryOwnRegistrations(ctx echo.Context) error {
	rf, err := registrationFilter(ctx)
	if err != nil {
		return err
	}
	if rf.UserID = api.auth.getContextUserID(ctx); rf.UserID == nil {
		return errUnauthorized
	}

	regs, err := api.svc.QueryCourseRegistrations(ctx.Request().Context(), rf)
	if err != nil {
		return errors.Wrap(err, "querying own course registrations")
	}
	return ctx.JSON(http.StatusOK, regs)
}

// filters never take a user id from the client

func projectFilter(ctx echo.Context) (submission.ProjectFilter, error) {
	status := submission.ProjectStatus(core.CleanString(ctx.QueryParam("projectStatus")))
	if status != "" && !status.Valid() {
		return submission.ProjectFilter{}, core.NewValidationError(nil, core.FieldError{Field: "projectStatus", Error: "invalid status"})
	}
	return submission.ProjectFilter{Status: status}, nil
}

func registrationFilter(ctx echo.Context) (submission.RegistrationFilter, error) {
	status := submission.RegistrationStatus(core.CleanString(ctx.QueryParam("registrationStatus")))
	if status != "" && !status.Valid() {
		return submission.RegistrationFilter{}, core.NewValidationError(nil, core.FieldError{Field: "registrationStatus", Error: "invalid status"})
	}
	return submission.RegistrationFilter{
		Status:   status,
		CourseID: core.CleanString(ctx.QueryParam("courseId"), true /* lower */),
	}, nil
}
