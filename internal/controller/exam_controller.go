package controller

import (
	"time"

	"exam_admin_backend/internal/model"
	"exam_admin_backend/internal/repository"
	"exam_admin_backend/internal/service"
	"exam_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// Create godoc
// @Summary 创建考试
// @Description 新考试为草稿状态，可附带初始题目列表
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateExamInput true "考试信息"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response "参数错误或题目不存在"
// @Router /api/exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateExamInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Create(claims, input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// List godoc
// @Summary 考试列表
// @Description 管理员看到全部，考官只看到自己创建的；支持标题、状态、创建时间、创建人筛选
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   title query string false "标题模糊匹配"
// @Param   status query string false "状态"
// @Param   createdFrom query string false "创建时间下界 (2006-01-02)"
// @Param   createdTo query string false "创建时间上界 (2006-01-02)"
// @Param   creatorEmail query string false "创建人邮箱模糊匹配"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/exams [get]
func (c *ExamController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePagination(ctx)
	filter := repository.ExamListFilter{
		Title:        ctx.Query("title"),
		Status:       model.ExamStatus(ctx.Query("status")),
		CreatorEmail: ctx.Query("creatorEmail"),
		Page:         page,
		Limit:        limit,
	}
	if v := ctx.Query("createdFrom"); v != "" {
		t, err := time.Parse(util.DateFormat, v)
		if err != nil {
			util.BadRequest(ctx, "invalid createdFrom, expected "+util.DateFormat)
			return
		}
		filter.CreatedFrom = &t
	}
	if v := ctx.Query("createdTo"); v != "" {
		t, err := time.Parse(util.DateFormat, v)
		if err != nil {
			util.BadRequest(ctx, "invalid createdTo, expected "+util.DateFormat)
			return
		}
		// 上界取当天结束
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.CreatedTo = &end
	}

	exams, total, err := c.ExamService.List(filter, claims)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  exams,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get godoc
// @Summary 考试详情
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/exams/{id} [get]
func (c *ExamController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.ExamService.GetByID(ctx.Param("id"), claims)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Update godoc
// @Summary 更新考试
// @Description 已结束的考试不可编辑
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Param   body body service.UpdateExamInput true "待更新字段"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response "状态不允许编辑"
// @Router /api/exams/{id} [patch]
func (c *ExamController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateExamInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Update(ctx.Param("id"), claims, input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Delete godoc
// @Summary 删除考试
// @Description 仅草稿和已归档可删除，级联清理题目绑定与作答记录
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "状态不允许删除"
// @Router /api/exams/{id} [delete]
func (c *ExamController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ExamService.Delete(ctx.Param("id"), claims); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Duplicate godoc
// @Summary 复制考试
// @Description 以现有考试为模板创建新草稿，时间与状态重置
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 201 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id}/duplicate [post]
func (c *ExamController) Duplicate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.ExamService.Duplicate(ctx.Param("id"), claims)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// Publish godoc
// @Summary 发布考试
// @Description 草稿且至少绑定一道题才能发布
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response "状态或题目数量不满足发布条件"
// @Router /api/exams/{id}/publish [post]
func (c *ExamController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.ExamService.Publish(ctx.Param("id"), claims)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Unpublish godoc
// @Summary 撤回发布
// @Description 已发布但未开考的考试退回草稿
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id}/unpublish [post]
func (c *ExamController) Unpublish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.ExamService.Unpublish(ctx.Param("id"), claims)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Archive godoc
// @Summary 归档考试
// @Description 已结束的考试归档后只读
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id}/archive [post]
func (c *ExamController) Archive(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.ExamService.Archive(ctx.Param("id"), claims)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Statuses godoc
// @Summary 状态字典
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/exams/statuses [get]
func (c *ExamController) Statuses(ctx *gin.Context) {
	util.Success(ctx, c.ExamService.GetStatuses())
}

// ListAttempts godoc
// @Summary 考试的作答记录
// @Description 考官/管理员查看每位候选人的选择与得分
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/exams/{id}/attempts [get]
func (c *ExamController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePagination(ctx)
	attempts, total, err := c.ExamService.ListAttempts(ctx.Param("id"), claims, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  attempts,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// TerminateAttempt godoc
// @Summary 终止作答
// @Description 强制终止进行中的作答，不计分
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Param   attemptId path string true "作答记录 ID"
// @Success 200 {object} util.Response{data=model.ExamAttempt}
// @Failure 400 {object} util.Response "作答不在进行中"
// @Router /api/exams/{id}/attempts/{attemptId}/terminate [post]
func (c *ExamController) TerminateAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.ExamService.TerminateAttempt(ctx.Param("id"), ctx.Param("attemptId"), claims)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}
