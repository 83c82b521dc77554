package httpt

import (
	"net/http"
	"strconv"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"

	"github.com/gin-gonic/gin"
)

// @Summary List users
// @Description Returns all registered users
// @Tags Users
// @Produce json
// @Success 200 {object} httpt.SuccessResponse "User list"
// @Failure 500 {object} httpt.ErrorResponse "Internal server error"
// @Router /users [get]
func (h *Handler) listUsersHandler(c *gin.Context) {
	const op = "transport.listUsersHandler"

	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, op, "Invalid request")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: users})
}

// @Summary Get a user
// @Description Returns a user by numeric identifier
// @Tags Users
// @Produce json
// @Param id path int true "User identifier"
// @Success 200 {object} httpt.SuccessResponse "User"
// @Failure 400 {object} httpt.ErrorResponse "Invalid user identifier"
// @Failure 404 {object} httpt.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (h *Handler) getUserHandler(c *gin.Context) {
	const op = "transport.getUserHandler"

	id, ok := h.parseUserID(c, op)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, op, "Invalid user identifier")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: user})
}

// @Summary Create a user
// @Description Registers a new user with a unique username and email
// @Tags Users
// @Accept json
// @Produce json
// @Param request body httpt.User true "User payload"
// @Success 201 {object} httpt.SuccessResponse "Created user"
// @Failure 400 {object} httpt.ErrorResponse "Invalid user data"
// @Failure 409 {object} httpt.ErrorResponse "Username or email already taken"
// @Router /users [post]
func (h *Handler) createUserHandler(c *gin.Context) {
	const op = "transport.createUserHandler"

	var user entity.User
	if err := c.ShouldBindJSON(&user); err != nil {
		h.log.Ctx(c.Request.Context()).Warnw("malformed user body",
			"op", op,
			"error", err,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	created, err := h.users.Create(c.Request.Context(), &user)
	if err != nil {
		h.handleServiceError(c, err, op,
			"Invalid user data. Check username and email.")
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: created})
}

// @Summary Update a user
// @Description Replaces the username and email of an existing user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User identifier"
// @Param request body httpt.User true "User payload"
// @Success 200 {object} httpt.SuccessResponse "Updated user"
// @Failure 400 {object} httpt.ErrorResponse "Invalid user data or identifier mismatch"
// @Failure 404 {object} httpt.ErrorResponse "User not found"
// @Failure 409 {object} httpt.ErrorResponse "Username or email already taken"
// @Router /users/{id} [put]
func (h *Handler) updateUserHandler(c *gin.Context) {
	const op = "transport.updateUserHandler"

	id, ok := h.parseUserID(c, op)
	if !ok {
		return
	}

	var user entity.User
	if err := c.ShouldBindJSON(&user); err != nil {
		h.log.Ctx(c.Request.Context()).Warnw("malformed user body",
			"op", op,
			"error", err,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if user.ID != 0 && user.ID != id {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID mismatch"})
		return
	}
	user.ID = id

	updated, err := h.users.Update(c.Request.Context(), &user)
	if err != nil {
		h.handleServiceError(c, err, op,
			"Invalid user data. Check username and email.")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: updated})
}

// @Summary Delete a user
// @Description Removes a user by numeric identifier
// @Tags Users
// @Produce json
// @Param id path int true "User identifier"
// @Success 200 {object} httpt.SuccessResponse "User deleted"
// @Failure 400 {object} httpt.ErrorResponse "Invalid user identifier"
// @Failure 404 {object} httpt.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (h *Handler) deleteUserHandler(c *gin.Context) {
	const op = "transport.deleteUserHandler"

	id, ok := h.parseUserID(c, op)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, op, "Invalid user identifier")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "User deleted successfully"})
}

func (h *Handler) parseUserID(c *gin.Context, op string) (int64, bool) {
	idStr := c.Param("id")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.handleInvalidID(c, op, idStr, "Invalid user identifier format")
		return 0, false
	}

	return id, true
}
