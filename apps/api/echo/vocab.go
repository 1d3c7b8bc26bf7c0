package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mutombo/kamusi/core"
	"github.com/mutombo/kamusi/core/user"
	"github.com/mutombo/kamusi/core/vocab"
)

type vocabApi struct {
	usrSvc user.Service
	svc    vocab.Service
}

func registerVocabAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, svc vocab.Service) {
	api := vocabApi{usrSvc: usrSvc, svc: svc}

	g.GET("/vocabulary", api.listQuery, jwt)

	vg := g.Group("/users/:id/vocabulary", jwt, selfOrAdminMiddleware())
	vg.GET("", api.list)
	vg.POST("", api.create)
	vg.PUT("/:wordId", api.update)
	vg.DELETE("/:wordId", api.destroy)
	vg.POST("/import", api.importXLSX)
}

// Handlers

// listQuery serves the query-param flavor of the listing: defaults to the
// authenticated user when userId is absent.
func (api *vocabApi) listQuery(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ownerID := ctx.QueryParam("userId")
	if ownerID == "" {
		ownerID = claims.Subject
	} else if ownerID != claims.Subject && !claims.IsAdmin {
		return errHttpNotFound
	}

	return api.respondList(ctx, ownerID)
}

func (api *vocabApi) list(ctx echo.Context) error {
	return api.respondList(ctx, ctx.Param("id"))
}

func (api *vocabApi) respondList(ctx echo.Context, ownerID string) error {
	words, err := api.svc.List(ctx.Request().Context(), ownerID)
	if err != nil {
		return errors.Wrap(err, "listing words")
	}
	if words == nil {
		words = []vocab.Word{}
	}
	return ctx.JSON(http.StatusOK, WordListResponse{Words: words})
}

func (api *vocabApi) create(ctx echo.Context) error {
	var data vocab.NewWord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	w, err := api.svc.Add(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding word")
	}
	return ctx.JSON(http.StatusCreated, w)
}

func (api *vocabApi) update(ctx echo.Context) error {
	var data vocab.UpdateWord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	w, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), ctx.Param("wordId"), data)
	if err != nil {
		return errors.Wrap(err, "updating word")
	}
	return ctx.JSON(http.StatusOK, w)
}

func (api *vocabApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), ctx.Param("wordId")); err != nil {
		return errors.Wrap(err, "deleting word")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *vocabApi) importXLSX(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a .xlsx file is required"})
	}

	lang := core.CleanString(ctx.FormValue("lang"), true /* lower */)
	if lang == "" {
		usr, err := api.usrSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			return errors.Wrap(err, "finding user by ID")
		}
		lang = usr.NativeLanguage
	}
	if lang == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "lang", Error: "a target language is required"})
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	res, err := api.svc.ImportXLSX(ctx.Request().Context(), ctx.Param("id"), lang, f)
	if err != nil {
		return errors.Wrap(err, "importing words")
	}
	return ctx.JSON(http.StatusOK, res)
}

type WordListResponse struct {
	Words []vocab.Word `json:"words"`
}
