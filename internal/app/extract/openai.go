package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"procurement/internal/app/dto"
	"procurement/internal/app/storage"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/sirupsen/logrus"
)

const extractionInstructions = `You extract procurement requests from vendor offers and invoices.
Answer with a single JSON object with exactly these keys:
  requestor_name (string, full name of the person asking for the item, "Unknown" if not found),
  department (string, department of the requestor),
  vendor_name (string, company providing the product or service),
  vat_id (string, VAT ID such as DE123456789, empty string if not found),
  title (string, short title for the request, e.g. "Adobe Licenses"),
  total_cost (number, total cost of the offer),
  commodity_group_id (string, best matching ID from the list below, "009" if unsure),
  order_lines (array of objects with description, unit_price, amount, unit, total_price).
Pay special attention to the table structure of the order lines and include alternative
products as order lines as well.

Commodity groups:
`

const predictionInstructions = `Classify the procurement request into exactly one commodity group.
Answer with a JSON object {"commodity_group_id": "<ID>"} using an ID from the list below,
"009" if unsure.

Commodity groups:
`

type OpenAIExtractor struct {
	client openai.Client
	model  string
}

func NewOpenAIExtractor(apiKey, model string, opts ...option.RequestOption) *OpenAIExtractor {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	logrus.Infof("extract: OpenAI extractor configured, model=%s", model)
	return &OpenAIExtractor{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Extract отправляет документ модели целиком (PDF как файл, изображения как картинку)
func (e *OpenAIExtractor) Extract(ctx context.Context, filename string, data []byte) (dto.ProcurementRequest, error) {
	if len(data) == 0 {
		return dto.ProcurementRequest{}, ErrEmptyDocument
	}

	content, err := e.complete(ctx, extractionInstructions+commodityGroupPrompt(), documentParts(filename, data))
	if err != nil {
		return dto.ProcurementRequest{}, fmt.Errorf("extract %s: %w", filename, err)
	}

	var req dto.ProcurementRequest
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		return dto.ProcurementRequest{}, fmt.Errorf("decode extraction: %w", err)
	}

	return normalize(req), nil
}

func (e *OpenAIExtractor) PredictCommodityGroup(ctx context.Context, req dto.ProcurementRequest) (string, error) {
	summary, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(string(summary)),
	}
	content, err := e.complete(ctx, predictionInstructions+commodityGroupPrompt(), parts)
	if err != nil {
		return "", fmt.Errorf("predict commodity group: %w", err)
	}

	var answer struct {
		CommodityGroupID string `json:"commodity_group_id"`
	}
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return "", fmt.Errorf("decode prediction: %w", err)
	}

	g, ok := LookupCommodityGroup(answer.CommodityGroupID)
	if !ok {
		return "", fmt.Errorf("unknown commodity group %q", answer.CommodityGroupID)
	}
	return g.ID, nil
}

func (e *OpenAIExtractor) complete(ctx context.Context, instructions string, parts []openai.ChatCompletionContentPartUnionParam) (string, error) {
	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(parts),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrNoCompletion
	}
	return completion.Choices[0].Message.Content, nil
}

func documentParts(filename string, data []byte) []openai.ChatCompletionContentPartUnionParam {
	contentType := storage.ContentType(filename)
	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)

	var document openai.ChatCompletionContentPartUnionParam
	switch {
	case strings.HasPrefix(contentType, "image/"):
		document = openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		})
	case contentType == "text/plain":
		document = openai.TextContentPart(string(data))
	default:
		document = openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileData: openai.String(dataURL),
			Filename: openai.String(filename),
		})
	}

	return []openai.ChatCompletionContentPartUnionParam{
		document,
		openai.TextContentPart("Analyze this document visually and extract the procurement request details."),
	}
}
