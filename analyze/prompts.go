package analyze

import (
	"fmt"
	"strings"
)

// Per-prompt request tuning. Word limits bound the excerpt sent upstream;
// they are word counts, not tokens.
const (
	comprehensiveMaxWords = 3500
	structureMaxWords     = 3000
	keywordsMaxWords      = 3000
	compareMaxWordsPer    = 1500

	comprehensiveMaxTokens = 2500
	structureMaxTokens     = 2000
	keywordsMaxTokens      = 1500
	referencesMaxTokens    = 2000
	compareMaxTokens       = 1000
)

const (
	comprehensiveSystem = "당신은 학술 논문 분석 전문가입니다. 질적 연구방법론에 특히 정통하며, 한국어로 명확하고 상세한 분석을 제공합니다."
	structureSystem     = "당신은 학술 논문의 구조를 분석하는 전문가입니다. IMRaD 구조(서론, 방법, 결과, 논의)를 잘 이해하고 있습니다."
	keywordsSystem      = "당신은 학술 논문의 주제와 키워드를 추출하는 전문가입니다."
	referencesSystem    = "당신은 학술 논문의 참고문헌을 분석하는 전문가입니다. 서지정보를 정확히 추출하고 대학원생에게 유용한 인사이트를 제공합니다."
	compareSystem       = "당신은 학술 논문 비교분석 전문가입니다."
)

func comprehensivePrompt(text string) string {
	return fmt.Sprintf(`다음 학술 논문을 종합적으로 분석하여 한국어로 답변해주세요:

%s

다음 섹션별로 명확하게 구분하여 작성해주세요:

[핵심요약]
3-5문장으로 논문의 핵심 내용을 요약

[연구목적]
연구의 목적과 배경 설명

[연구방법]
사용된 연구방법론 상세 설명 (참여자, 자료수집, 분석방법 포함)

[주요발견]
핵심 연구 결과 및 발견사항

[이론적기여]
이론적/실천적 함의와 기여

[한계점]
연구의 한계점 및 향후 연구 방향`, text)
}

func structurePrompt(text string) string {
	return fmt.Sprintf(`다음 논문의 구조를 분석하여 각 섹션을 요약해주세요:

%s

다음 형식으로 작성해주세요:

[서론_배경]
서론 및 연구 배경 요약 (3-5문장)

[이론적_프레임워크]
이론적 틀 및 선행연구 요약 (3-5문장)

[연구방법]
연구설계, 참여자, 자료수집 방법 상세 설명

[자료분석]
자료 분석 절차 및 기법 설명

[연구결과]
주요 연구 결과 요약

[논의_함의]
논의 및 실천적 함의`, text)
}

func keywordsPrompt(text string) string {
	return fmt.Sprintf(`다음 논문에서 연구질문, 주요 주제, 키워드를 추출해주세요:

%s

다음 형식으로 작성해주세요:

[연구질문]
- RQ1: 첫 번째 연구질문
- RQ2: 두 번째 연구질문
- RQ3: 세 번째 연구질문

[연구가설]
- H1: 첫 번째 가설
- H2: 두 번째 가설

[주요주제]
- 주제1: 첫 번째 주요 주제
- 주제2: 두 번째 주요 주제
- 주제3: 세 번째 주요 주제
- 주제4: 네 번째 주요 주제
- 주제5: 다섯 번째 주요 주제

[핵심개념]
개념1, 개념2, 개념3, 개념4, 개념5

[중요키워드]
키워드1, 키워드2, 키워드3, 키워드4, 키워드5, 키워드6, 키워드7, 키워드8, 키워드9, 키워드10

[학술용어]
용어1, 용어2, 용어3, 용어4, 용어5, 용어6, 용어7

주의: 연구질문이나 가설이 명시되지 않은 경우, 논문의 목적을 기반으로 추론하여 작성해주세요.`, text)
}

func referencesPrompt(refSection string) string {
	return fmt.Sprintf(`다음 참고문헌 목록을 분석하여 대학원생이 문헌 조사에 활용할 수 있도록 상세히 정리해주세요:

%s

다음 형식으로 작성해주세요:

[통계요약]
• 총 참고문헌: XX개
• 연도 범위: XXXX-XXXX년
• 최근 5년 이내: XX개 (XX%%)
• 평균 저자수: X.X명

[핵심문헌]
각 문헌을 다음 형식으로 나열 (최대 8개):
• 저자(연도). 제목. 저널/출판사. (피인용 횟수가 많거나 핵심적인 문헌 위주)

[주요저널]
• Journal Name 1 (XX회 인용)
• Journal Name 2 (XX회 인용)
• Journal Name 3 (XX회 인용)

[영향력있는연구자]
• 연구자1 (XX회 인용) - 주요 연구 주제
• 연구자2 (XX회 인용) - 주요 연구 주제
• 연구자3 (XX회 인용) - 주요 연구 주제

[출판물유형]
• 저널논문: XX개
• 단행본/저서: XX개
• 학술대회: XX개
• 학위논문: XX개
• 기타: XX개

[시사점]
이 참고문헌 목록이 보여주는 연구 흐름, 주요 이론적 기반, 또는 연구방법론적 특징을 2-3문장으로 요약`, refSection)
}

func comparePrompt(papers []Paper) string {
	var blocks []string
	for _, p := range papers {
		blocks = append(blocks, fmt.Sprintf("[논문: %s]\n%s", p.Name, p.Text))
	}
	return fmt.Sprintf(`다음 논문들을 비교 분석하세요:

%s

JSON 형식으로 응답:
{
  "공통주제": ["주제1", "주제2", "주제3"],
  "차별점": "각 논문의 주요 차별점",
  "방법론비교": "연구방법론의 유사점과 차이점",
  "종합평가": "전체적인 비교 평가"
}`, strings.Join(blocks, "\n\n"))
}
