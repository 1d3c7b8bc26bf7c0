package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mutombo/kamusi/core/review"
	"github.com/mutombo/kamusi/core/user"
	"github.com/mutombo/kamusi/core/vocab"
)

type reviewApi struct {
	usrSvc   user.Service
	vocabSvc vocab.Service
	svc      review.Service
}

func registerReviewAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, vocabSvc vocab.Service, svc review.Service) {
	api := reviewApi{usrSvc: usrSvc, vocabSvc: vocabSvc, svc: svc}

	fg := g.Group("/users/:id/flashcards", jwt, selfOrAdminMiddleware())
	fg.GET("", api.listProgress)
	fg.GET("/due", api.due)
	fg.POST("/:wordId/rate", api.rate)

	sg := g.Group("/student/custom-intervals", jwt)
	sg.GET("", api.getIntervals)
	sg.POST("", api.setIntervals)
}

// Handlers

func (api *reviewApi) listProgress(ctx echo.Context) error {
	progress, err := api.svc.ListProgress(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing progress")
	}
	if progress == nil {
		progress = []review.Progress{}
	}
	return ctx.JSON(http.StatusOK, ProgressListResponse{Progress: progress})
}

// due returns the words to review now, in vocabulary order. With force=true
// every word not in the shown set comes back regardless of schedule.
func (api *reviewApi) due(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	userID := ctx.Param("id")

	words, err := api.vocabSvc.List(reqCtx, userID)
	if err != nil {
		return errors.Wrap(err, "listing words")
	}

	var due []vocab.Word
	if ctx.QueryParam("force") == "true" {
		shown := make(map[string]bool)
		if raw := ctx.QueryParam("shown"); raw != "" {
			for _, id := range strings.Split(raw, ",") {
				shown[strings.TrimSpace(id)] = true
			}
		}
		due = review.ForceDueWords(words, shown)
	} else {
		progress, err := api.svc.ListProgress(reqCtx, userID)
		if err != nil {
			return errors.Wrap(err, "listing progress")
		}
		due = review.DueWords(words, review.ProgressByWordID(progress), time.Now().UTC())
	}

	if due == nil {
		due = []vocab.Word{}
	}
	return ctx.JSON(http.StatusOK, WordListResponse{Words: due})
}

func (api *reviewApi) rate(ctx echo.Context) error {
	var data RateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RateRequest")
	}

	reqCtx := ctx.Request().Context()
	userID := ctx.Param("id")

	// unknown words cannot be rated
	if _, err := api.vocabSvc.Get(reqCtx, userID, ctx.Param("wordId")); err != nil {
		return errors.Wrap(err, "finding word")
	}

	if _, err := api.svc.Rate(reqCtx, userID, ctx.Param("wordId"), review.Difficulty(data.Difficulty)); err != nil {
		return errors.Wrap(err, "rating word")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *reviewApi) getIntervals(ctx echo.Context) error {
	userID, err := api.intervalsUserID(ctx, ctx.QueryParam("userId"))
	if err != nil {
		return err
	}
	iv := api.svc.EffectiveIntervals(ctx.Request().Context(), userID)
	return ctx.JSON(http.StatusOK, IntervalsResponse{Intervals: iv})
}

func (api *reviewApi) setIntervals(ctx echo.Context) error {
	var data SetIntervalsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetIntervalsRequest")
	}

	userID, err := api.intervalsUserID(ctx, data.UserID)
	if err != nil {
		return err
	}

	if err := api.svc.SetIntervals(ctx.Request().Context(), userID, data.Intervals); err != nil {
		return errors.Wrap(err, "setting intervals")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// intervalsUserID resolves the target user: the authenticated user by default,
// anybody for admins.
func (api *reviewApi) intervalsUserID(ctx echo.Context, userID string) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}
	if userID == "" {
		return claims.Subject, nil
	}
	if userID != claims.Subject && !claims.IsAdmin {
		return "", errHttpNotFound
	}
	return userID, nil
}

type (
	ProgressListResponse struct {
		Progress []review.Progress `json:"progress"`
	}

	RateRequest struct {
		Difficulty string `json:"difficulty"`
	}

	SuccessResponse struct {
		Success bool `json:"success"`
	}

	IntervalsResponse struct {
		Intervals review.Intervals `json:"intervals"`
	}

	SetIntervalsRequest struct {
		UserID    string           `json:"userId"`
		Intervals review.Intervals `json:"intervals"`
	}
)
