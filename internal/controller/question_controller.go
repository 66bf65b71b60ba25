package controller

import (
	"exam_admin_backend/internal/service"
	"exam_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// Create godoc
// @Summary 创建题目
// @Description 题目必须恰好有一个正确选项
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateQuestionInput true "题目内容与选项"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "正确选项数量不为 1"
// @Router /api/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var input service.CreateQuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Create(input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// List godoc
// @Summary 题目列表
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	questions, total, err := c.QuestionService.List()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"items": questions,
		"total": total,
	})
}

// Get godoc
// @Summary 题目详情
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "题目 ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	question, err := c.QuestionService.GetByID(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// Update godoc
// @Summary 更新题目
// @Description 乐观锁：请求需携带读取时的 updatedAt，不一致返回 409
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "题目 ID"
// @Param   body body service.UpdateQuestionInput true "题目内容与选项全量"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 409 {object} util.Response "题目已被他人修改"
// @Router /api/questions/{id} [patch]
func (c *QuestionController) Update(ctx *gin.Context) {
	var input service.UpdateQuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Update(ctx.Param("id"), input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// Delete godoc
// @Summary 删除题目
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "题目 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	if err := c.QuestionService.Delete(ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
