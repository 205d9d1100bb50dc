package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/content"
)

type contentApi struct {
	svc content.ServiceInterface
}

func registerContentAPI(g, admin *echo.Group, svc content.ServiceInterface) {
	api := contentApi{svc: svc}

	// public reads: active records only
	g.GET("/content-cards", api.queryActiveCards)
	g.GET("/content-lists", api.queryActiveLists)
	g.GET("/team-members", api.queryActiveTeam)
	g.GET("/blog-posts", api.queryActiveBlogPosts)
	g.GET("/projects", api.queryActiveProjects)

	cg := admin.Group("/content-cards")
	cg.GET("", api.queryCards)
	cg.POST("", api.createCard)
	cg.GET("/:id", api.retrieveCard)
	cg.PUT("/:id", api.updateCard)
	cg.DELETE("/:id", api.destroyCard)

	// content cards pinned to type `project`
	pg := admin.Group("/projects")
	pg.GET("", api.queryProjects)
	pg.POST("", api.createProject)
	pg.GET("/:id", api.retrieveProject)
	pg.PUT("/:id", api.updateProject)
	pg.DELETE("/:id", api.destroyProject)

	lg := admin.Group("/content-lists")
	lg.GET("", api.queryLists)
	lg.POST("", api.createList)
	lg.GET("/:id", api.retrieveList)
	lg.PUT("/:id", api.updateList)
	lg.DELETE("/:id", api.destroyList)

	tg := admin.Group("/team-members")
	tg.GET("", api.queryTeam)
	tg.POST("", api.createTeamMember)
	tg.GET("/:id", api.retrieveTeamMember)
	tg.PUT("/:id", api.updateTeamMember)
	tg.DELETE("/:id", api.destroyTeamMember)

	bg := admin.Group("/blog-posts")
	bg.GET("", api.queryBlogPosts)
	bg.POST("", api.createBlogPost)
	bg.GET("/:id", api.retrieveBlogPost)
	bg.PUT("/:id", api.updateBlogPost)
	bg.DELETE("/:id", api.destroyBlogPost)
}

func cardFilter(ctx echo.Context) (content.CardFilter, error) {
	typ := content.CardType(core.CleanString(ctx.QueryParam("type")))
	if typ != "" && !typ.Valid() {
		return content.CardFilter{}, core.NewValidationError(nil, core.FieldError{Field: "type", Error: "invalid card type"})
	}
	isActive, err := queryBool(ctx, "isActive")
	if err != nil {
		return content.CardFilter{}, err
	}
	return content.CardFilter{Type: typ, Category: ctx.QueryParam("category"), IsActive: isActive}, nil
}

func listFilter(ctx echo.Context) (content.ListFilter, error) {
	typ := content.ListType(core.CleanString(ctx.QueryParam("type")))
	if typ != "" && !typ.Valid() {
		return content.ListFilter{}, core.NewValidationError(nil, core.FieldError{Field: "type", Error: "invalid list type"})
	}
	isActive, err := queryBool(ctx, "isActive")
	if err != nil {
		return content.ListFilter{}, err
	}
	return content.ListFilter{Type: typ, IsActive: isActive}, nil
}

func teamFilter(ctx echo.Context) (content.TeamFilter, error) {
	owner, err := queryBool(ctx, "owner")
	if err != nil {
		return content.TeamFilter{}, err
	}
	isActive, err := queryBool(ctx, "isActive")
	if err != nil {
		return content.TeamFilter{}, err
	}
	return content.TeamFilter{Owner: owner, IsActive: isActive}, nil
}

func activeOnly() *bool {
	active := true
	return &active
}

// Public Handlers

func (api *contentApi) queryActiveCards(ctx echo.Context) error {
	filter, err := cardFilter(ctx)
	if err != nil {
		return err
	}
	filter.IsActive = activeOnly()
	cards, err := api.svc.QueryCards(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying active content cards")
	}
	return ctx.JSON(http.StatusOK, cards)
}

// queryActiveProjects returns project cards with their details decoded.
func (api *contentApi) queryActiveProjects(ctx echo.Context) error {
	cards, err := api.svc.QueryCards(ctx.Request().Context(), content.CardFilter{
		Type:     content.CardProject,
		Category: ctx.QueryParam("category"),
		IsActive: activeOnly(),
	})
	if err != nil {
		return errors.Wrap(err, "querying active projects")
	}
	projects := make([]content.ProjectCard, 0, len(cards))
	for _, c := range cards {
		if pc, ok := c.Variant().(content.ProjectCard); ok {
			projects = append(projects, pc)
		}
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (api *contentApi) queryActiveLists(ctx echo.Context) error {
	filter, err := listFilter(ctx)
	if err != nil {
		return err
	}
	filter.IsActive = activeOnly()
	lists, err := api.svc.QueryLists(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying active content lists")
	}
	return ctx.JSON(http.StatusOK, lists)
}

func (api *contentApi) queryActiveTeam(ctx echo.Context) error {
	filter, err := teamFilter(ctx)
	if err != nil {
		return err
	}
	filter.IsActive = activeOnly()
	members, err := api.svc.QueryTeamMembers(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying active team members")
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *contentApi) queryActiveBlogPosts(ctx echo.Context) error {
	posts, err := api.svc.QueryBlogPosts(ctx.Request().Context(), content.BlogFilter{IsActive: activeOnly()})
	if err != nil {
		return errors.Wrap(err, "querying active blog posts")
	}
	return ctx.JSON(http.StatusOK, posts)
}

// Content Cards

func (api *contentApi) queryCards(ctx echo.Context) error {
	filter, err := cardFilter(ctx)
	if err != nil {
		return err
	}
	cards, err := api.svc.QueryCards(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying content cards")
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *contentApi) createCard(ctx echo.Context) error {
	var data content.NewCard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCard")
	}
	c, err := api.svc.CreateCard(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating content card")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *contentApi) retrieveCard(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.GetCard(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting content card")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *contentApi) updateCard(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data content.CardUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CardUpdate")
	}
	c, err := api.svc.UpdateCard(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating content card")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *contentApi) destroyCard(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteCard(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting content card")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Projects

// getProject returns the card `:id` if it is a project card.
func (api *contentApi) getProject(ctx echo.Context) (content.Card, error) {
	id, err := idParam(ctx)
	if err != nil {
		return content.Card{}, err
	}
	c, err := api.svc.GetCard(ctx.Request().Context(), id)
	if err != nil {
		return content.Card{}, errors.Wrap(err, "getting project")
	}
	if c.Type != content.CardProject {
		return content.Card{}, content.ErrCardNotFound
	}
	return c, nil
}

func (api *contentApi) queryProjects(ctx echo.Context) error {
	filter, err := cardFilter(ctx)
	if err != nil {
		return err
	}
	filter.Type = content.CardProject
	cards, err := api.svc.QueryCards(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying projects")
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *contentApi) createProject(ctx echo.Context) error {
	var data content.NewCard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCard")
	}
	data.Type = content.CardProject
	c, err := api.svc.CreateCard(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating project")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *contentApi) retrieveProject(ctx echo.Context) error {
	c, err := api.getProject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *contentApi) updateProject(ctx echo.Context) error {
	c, err := api.getProject(ctx)
	if err != nil {
		return err
	}
	var data content.CardUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CardUpdate")
	}
	data.Type = nil // projects stay projects
	c, err = api.svc.UpdateCard(ctx.Request().Context(), c.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating project")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *contentApi) destroyProject(ctx echo.Context) error {
	c, err := api.getProject(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteCard(ctx.Request().Context(), c.ID); err != nil {
		return errors.Wrap(err, "deleting project")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Content Lists

func (api *contentApi) queryLists(ctx echo.Context) error {
	filter, err := listFilter(ctx)
	if err != nil {
		return err
	}
	lists, err := api.svc.QueryLists(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying content lists")
	}
	return ctx.JSON(http.StatusOK, lists)
}

func (api *contentApi) createList(ctx echo.Context) error {
	var data content.NewList
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewList")
	}
	l, err := api.svc.CreateList(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating content list")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (api *contentApi) retrieveList(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	l, err := api.svc.GetList(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting content list")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *contentApi) updateList(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data content.ListUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ListUpdate")
	}
	l, err := api.svc.UpdateList(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating content list")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *contentApi) destroyList(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteList(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting content list")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Team Members

func (api *contentApi) queryTeam(ctx echo.Context) error {
	filter, err := teamFilter(ctx)
	if err != nil {
		return err
	}
	members, err := api.svc.QueryTeamMembers(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying team members")
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *contentApi) createTeamMember(ctx echo.Context) error {
	var data content.NewTeamMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeamMember")
	}
	m, err := api.svc.CreateTeamMember(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating team member")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *contentApi) retrieveTeamMember(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	m, err := api.svc.GetTeamMember(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting team member")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *contentApi) updateTeamMember(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data content.TeamMemberUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeamMemberUpdate")
	}
	m, err := api.svc.UpdateTeamMember(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating team member")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *contentApi) destroyTeamMember(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteTeamMember(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting team member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Blog Posts

func (api *contentApi) queryBlogPosts(ctx echo.Context) error {
	isActive, err := queryBool(ctx, "isActive")
	if err != nil {
		return err
	}
	posts, err := api.svc.QueryBlogPosts(ctx.Request().Context(), content.BlogFilter{IsActive: isActive})
	if err != nil {
		return errors.Wrap(err, "querying blog posts")
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *contentApi) createBlogPost(ctx echo.Context) error {
	var data content.NewBlogPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBlogPost")
	}
	p, err := api.svc.CreateBlogPost(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating blog post")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *contentApi) retrieveBlogPost(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	p, err := api.svc.GetBlogPost(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting blog post")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *contentApi) updateBlogPost(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data content.BlogPostUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BlogPostUpdate")
	}
	p, err := api.svc.UpdateBlogPost(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating blog post")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *contentApi) destroyBlogPost(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteBlogPost(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting blog post")
	}
	return ctx.NoContent(http.StatusNoContent)
}
