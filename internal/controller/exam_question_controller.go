package controller

import (
	"exam_admin_backend/internal/service"
	"exam_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamQuestionController struct {
	ExamQuestionService *service.ExamQuestionService
}

func NewExamQuestionController(examQuestionService *service.ExamQuestionService) *ExamQuestionController {
	return &ExamQuestionController{ExamQuestionService: examQuestionService}
}

// List godoc
// @Summary 试卷题目列表
// @Description 按题序返回考试绑定的题目
// @Tags 试卷
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response{data=[]model.ExamQuestion}
// @Router /api/exams/{id}/questions [get]
func (c *ExamQuestionController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	bindings, err := c.ExamQuestionService.List(ctx.Param("id"), claims)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, bindings)
}

// Attach godoc
// @Summary 绑定题目
// @Description 向试卷追加一道题，分值缺省为 1
// @Tags 试卷
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Param   body body service.BindingInput true "题目与题序"
// @Success 201 {object} util.Response{data=model.ExamQuestion}
// @Failure 409 {object} util.Response "题目或题序已占用"
// @Router /api/exams/{id}/questions [post]
func (c *ExamQuestionController) Attach(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.BindingInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	binding, err := c.ExamQuestionService.Attach(ctx.Param("id"), claims, input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, binding)
}

// Detach godoc
// @Summary 解绑题目
// @Tags 试卷
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Param   questionId path string true "题目 ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/questions/{questionId} [delete]
func (c *ExamQuestionController) Detach(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ExamQuestionService.Detach(ctx.Param("id"), ctx.Param("questionId"), claims); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ReconcileRequest 试卷绑定全量更新请求
// swagger:model ReconcileRequest
type ReconcileRequest struct {
	Questions []service.BindingInput `json:"questions" binding:"required"`
}

// Reconcile godoc
// @Summary 更新试卷题目
// @Description 以请求为目标状态：新题绑定、已有题原地改序改分、缺席题解绑，单事务完成
// @Tags 试卷
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Param   body body ReconcileRequest true "目标绑定列表"
// @Success 200 {object} util.Response{data=[]model.ExamQuestion}
// @Failure 400 {object} util.Response "题序重复或题目不存在"
// @Router /api/exams/{id}/questions [put]
func (c *ExamQuestionController) Reconcile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReconcileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	bindings, err := c.ExamQuestionService.Reconcile(ctx.Param("id"), claims, req.Questions)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, bindings)
}
