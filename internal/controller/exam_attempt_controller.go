package controller

import (
	"exam_admin_backend/internal/service"
	"exam_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamAttemptController struct {
	AttemptService *service.ExamAttemptService
}

func NewExamAttemptController(attemptService *service.ExamAttemptService) *ExamAttemptController {
	return &ExamAttemptController{AttemptService: attemptService}
}

// ListAssigned godoc
// @Summary 我的考试
// @Description 候选人可见的考试及作答进度
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/attempts/exams [get]
func (c *ExamAttemptController) ListAssigned(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePagination(ctx)
	exams, total, err := c.AttemptService.ListAssigned(claims, page, limit)
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

// Start godoc
// @Summary 开始考试
// @Description 首次调用落试卷快照，重复调用返回同一份；响应不含正确答案
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   examId path string true "考试 ID"
// @Success 200 {object} util.Response{data=service.StartExamView}
// @Failure 400 {object} util.Response "考试不在进行中或已交卷"
// @Failure 403 {object} util.Response "不在考生名单"
// @Router /api/attempts/exams/{examId}/start [post]
func (c *ExamAttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.AttemptService.Start(claims, ctx.Param("examId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Submit godoc
// @Summary 交卷
// @Description 记录选择并按开考快照判分，每人每场仅一次
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   examId path string true "考试 ID"
// @Param   body body service.SubmitExamInput true "答案列表"
// @Success 200 {object} util.Response{data=model.ExamAttempt}
// @Failure 400 {object} util.Response "重复作答或已交卷"
// @Router /api/attempts/exams/{examId}/submit [post]
func (c *ExamAttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.SubmitExamInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.Submit(claims, ctx.Param("examId"), input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// Result godoc
// @Summary 成绩查询
// @Description 交卷或被终止后可查，含每题的选择与正确答案
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   examId path string true "考试 ID"
// @Success 200 {object} util.Response{data=service.ResultView}
// @Failure 400 {object} util.Response "考试未完成"
// @Router /api/attempts/exams/{examId}/result [get]
func (c *ExamAttemptController) Result(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.AttemptService.GetResult(claims, ctx.Param("examId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
