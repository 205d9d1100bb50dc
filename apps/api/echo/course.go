package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/course"
	"github.com/trezcool/itsite/core/submission"
)

type courseApi struct {
	auth    *authenticator
	svc     course.ServiceInterface
	subsSvc submission.ServiceInterface
}

func registerCourseAPI(
	g, admin, me *echo.Group,
	auth *authenticator,
	svc course.ServiceInterface,
	subsSvc submission.ServiceInterface,
) {
	api := courseApi{auth: auth, svc: svc, subsSvc: subsSvc}

	g.GET("/courses", api.queryActive)
	g.GET("/courses/:id", api.retrieveActive)
	// no caller check: anyone knowing a course id can read its schedule
	g.GET("/course-schedule", api.retrieveSchedule)

	ag := admin.Group("/courses")
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)

	sg := admin.Group("/course-schedules")
	sg.GET("/:id", api.retrieveSchedule)
	sg.PUT("/:id", api.setSchedule)
	sg.DELETE("/:id", api.destroySchedule)

	me.GET("/schedules", api.queryOwnSchedules)
}

// Handlers

func (api *courseApi) queryActive(ctx echo.Context) error {
	active := true
	courses, err := api.svc.Query(ctx.Request().Context(), course.QueryFilter{IsActive: &active})
	if err != nil {
		return errors.Wrap(err, "querying active courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieveActive(ctx echo.Context) error {
	c, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	if !c.IsActive {
		return course.ErrNotFound
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) query(ctx echo.Context) error {
	isActive, err := queryBool(ctx, "isActive")
	if err != nil {
		return err
	}
	courses, err := api.svc.Query(ctx.Request().Context(), course.QueryFilter{IsActive: isActive})
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	c, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// retrieveSchedule serves both `?courseId=` (public) and `/:id` (admin).
func (api *courseApi) retrieveSchedule(ctx echo.Context) error {
	courseID := ctx.Param("id")
	if courseID == "" {
		courseID = core.CleanString(ctx.QueryParam("courseId"))
	}
	if courseID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "courseId", Error: "this field is required"})
	}

	s, err := api.svc.GetSchedule(ctx.Request().Context(), courseID)
	if err != nil {
		return errors.Wrap(err, "getting course schedule")
	}
	return ctx.JSON(http.StatusOK, ScheduleResponse{Schedule: s})
}

func (api *courseApi) setSchedule(ctx echo.Context) error {
	var data course.ScheduleData
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleData")
	}
	s, err := api.svc.SetSchedule(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "setting course schedule")
	}
	return ctx.JSON(http.StatusOK, ScheduleResponse{Schedule: s})
}

func (api *courseApi) destroySchedule(ctx echo.Context) error {
	if err := api.svc.DeleteSchedule(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course schedule")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// queryOwnSchedules lists the schedules of the courses the session user is approved for.
func (api *courseApi) queryOwnSchedules(ctx echo.Context) error {
	userID := api.auth.getContextUserID(ctx)
	if userID == nil {
		return errUnauthorized
	}

	rctx := ctx.Request().Context()
	regs, err := api.subsSvc.QueryCourseRegistrations(rctx, submission.RegistrationFilter{
		Status: submission.RegistrationApproved,
		UserID: userID,
	})
	if err != nil {
		return errors.Wrap(err, "querying approved registrations")
	}

	seen := make(map[string]bool, len(regs))
	courseIDs := make([]string, 0, len(regs))
	for _, r := range regs {
		if !seen[r.CourseID] {
			seen[r.CourseID] = true
			courseIDs = append(courseIDs, r.CourseID)
		}
	}

	schedules, err := api.svc.SchedulesFor(rctx, courseIDs...)
	if err != nil {
		return errors.Wrap(err, "querying schedules")
	}
	return ctx.JSON(http.StatusOK, schedules)
}

type ScheduleResponse struct {
	Schedule course.Schedule `json:"schedule"`
}
