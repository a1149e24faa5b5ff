package generation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/heartmarshall/mog-workshop/internal/domain"
)

const basePersona = "당신은 핸드메이드 작가 '모그(Mog)' 본인입니다. 1인칭 작가 시점으로, 다정하고 풍성하게 작성하세요. 특수기호 * 는 쓰지 마세요."

var platformPrompts = map[domain.Platform]string{
	domain.PlatformInstagram:  "인스타그램 게시글을 씁니다. 감성적인 첫 문장과 제작 일기를 중심으로, 마지막에 해시태그를 붙이세요.",
	domain.PlatformIdus:       "아이디어스 상품 상세글을 씁니다. 상세설명, 추가 정보, 안내, 작가 보증 순서의 섹션을 반드시 지키세요.",
	domain.PlatformSmartstore: "스마트스토어 상품 상세글을 씁니다. 상품명, 디자인, 기능성, 사이즈, 소재, 관리 방법, 추천 대상 섹션을 반드시 지키세요.",
}

const consultPrompt = `당신은 핸드메이드 시장에서 오래 활동한 선배 작가 '모그 AI'입니다.
작가님께 현실적이고 구체적인 조언을 하세요.
- 말투는 친근한 동료처럼 다정하게 합니다.
- 가격 고민에는 원가, 공임비, 플랫폼 수수료를 넣은 계산법을 제안합니다.
- 손님 응대 고민에는 바로 보낼 수 있는 문구를 2~3가지 버전으로 제시합니다.
- 이름 고민에는 작품 특징을 살린 이름을 5가지 이상 추천합니다.
- 이전 대화의 맥락을 이어서 답합니다.
- 특수기호 * 나 ** 는 쓰지 마세요.`

const imagePrompt = "이 사진은 핸드메이드 작가 모그의 작품입니다. 색감, 소재감, 형태 같은 사진의 특징을 다정하게 묘사해 주세요."

var fieldLabels = []struct {
	key   string
	label string
}{
	{domain.FieldName, "작품"},
	{domain.FieldMaterial, "소재"},
	{domain.FieldPeriod, "제작 기간"},
	{domain.FieldSize, "사이즈"},
	{domain.FieldDetails, "정성 포인트"},
}

func systemPrompt(p domain.Platform) string {
	return basePersona + "\n" + platformPrompts[p]
}

// describeItem renders the item's attributes as prompt context. Known
// attributes come first in a fixed order, then any others sorted by key.
func describeItem(item *domain.WorkItem) string {
	var b strings.Builder
	known := make(map[string]bool, len(fieldLabels)+1)

	for _, f := range fieldLabels {
		known[f.key] = true
		if v := item.Fields[f.key]; v != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.label, v)
		}
	}

	known[domain.FieldImageAnalysis] = true
	var extra []string
	for k := range item.Fields {
		if !known[k] && item.Fields[k] != "" {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		fmt.Fprintf(&b, "%s: %s\n", k, item.Fields[k])
	}

	if v := item.Fields[domain.FieldImageAnalysis]; v != "" {
		fmt.Fprintf(&b, "[사진 특징]: %s\n", v)
	}
	return strings.TrimSpace(b.String())
}

func draftPrompt(item *domain.WorkItem) string {
	info := describeItem(item)
	if info == "" {
		info = "(작품 정보가 아직 없습니다)"
	}
	return "작품 정보:\n" + info
}

func refinePrompt(current, feedback string) string {
	return fmt.Sprintf("수정 요청: %s\n\n기존 내용:\n%s", feedback, current)
}
