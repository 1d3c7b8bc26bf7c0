package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mutombo/kamusi/core/lesson"
	"github.com/mutombo/kamusi/core/user"
)

type lessonApi struct {
	usrSvc user.Service
	svc    lesson.Service
}

func registerLessonAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, svc lesson.Service) {
	api := lessonApi{usrSvc: usrSvc, svc: svc}

	lg := g.Group("/lessons", jwt)
	lg.POST("", api.create, teacherMiddleware())
	lg.GET("", api.list)
	lg.GET("/:id", api.retrieve)
	lg.PUT("/:id", api.update, teacherMiddleware())
	lg.DELETE("/:id", api.destroy, teacherMiddleware())
	lg.POST("/:id/homework", api.submitHomework)
	lg.GET("/:id/homework", api.listHomework)

	g.GET("/users/:id/lessons", api.listForUser, jwt, selfOrAdminMiddleware())
}

// Handlers

func (api *lessonApi) create(ctx echo.Context) error {
	var data lesson.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// the student must exist
	reqCtx := ctx.Request().Context()
	if _, err := api.usrSvc.GetByID(reqCtx, data.StudentID); err != nil {
		return errors.Wrap(err, "finding student")
	}

	l, err := api.svc.Create(reqCtx, claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (api *lessonApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return api.respondList(ctx, claims.Subject)
}

func (api *lessonApi) listForUser(ctx echo.Context) error {
	return api.respondList(ctx, ctx.Param("id"))
}

func (api *lessonApi) respondList(ctx echo.Context, userID string) error {
	lessons, err := api.svc.ListForUser(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "listing lessons")
	}
	if lessons == nil {
		lessons = []lesson.Lesson{}
	}
	return ctx.JSON(http.StatusOK, LessonListResponse{Lessons: lessons})
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	l, err := api.getParticipantLesson(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *lessonApi) update(ctx echo.Context) error {
	l, err := api.getParticipantLesson(ctx)
	if err != nil {
		return err
	}

	var data lesson.UpdateLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	l, err = api.svc.Update(ctx.Request().Context(), l.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *lessonApi) destroy(ctx echo.Context) error {
	l, err := api.getParticipantLesson(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), l.ID); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *lessonApi) submitHomework(ctx echo.Context) error {
	l, err := api.getParticipantLesson(ctx)
	if err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	// only the lesson's student hands in homework
	if l.StudentID != claims.Subject {
		return errHttpForbidden
	}

	var data lesson.NewHomework
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHomework")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	hw, err := api.svc.SubmitHomework(ctx.Request().Context(), l.ID, claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "submitting homework")
	}
	return ctx.JSON(http.StatusCreated, hw)
}

func (api *lessonApi) listHomework(ctx echo.Context) error {
	l, err := api.getParticipantLesson(ctx)
	if err != nil {
		return err
	}

	subs, err := api.svc.ListHomework(ctx.Request().Context(), l.ID)
	if err != nil {
		return errors.Wrap(err, "listing homework")
	}
	if subs == nil {
		subs = []lesson.HomeworkSubmission{}
	}
	return ctx.JSON(http.StatusOK, HomeworkListResponse{Homework: subs})
}

// getParticipantLesson loads the lesson and ensures the caller is its student,
// its teacher, or an admin.
func (api *lessonApi) getParticipantLesson(ctx echo.Context) (lesson.Lesson, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "getting context claims")
	}

	l, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "finding lesson")
	}
	if l.StudentID != claims.Subject && l.TeacherID != claims.Subject && !claims.IsAdmin {
		return lesson.Lesson{}, errHttpNotFound
	}
	return l, nil
}

type (
	LessonListResponse struct {
		Lessons []lesson.Lesson `json:"lessons"`
	}

	HomeworkListResponse struct {
		Homework []lesson.HomeworkSubmission `json:"homework"`
	}
)
