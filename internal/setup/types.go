package setup

import "github.com/hbjs97/pyact/internal/envfile"

// LinkInput은 link 대화형 입력 값이다.
type LinkInput struct {
	Type envfile.Type
	// Target은 venv 경로 또는 conda 환경 이름/경로다.
	Target string
}

// Args는 helper link에 전달할 인자 목록을 반환한다.
func (in *LinkInput) Args() []string {
	return []string{string(in.Type), in.Target}
}

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 mock을 사용한다.
type FormRunner interface {
	// RunConfirm은 확인 프롬프트를 표시한다.
	RunConfirm(message string) (bool, error)

	// RunShellSelect는 hook을 설치할 셸 선택 UI를 표시한다.
	RunShellSelect(shells []string) (string, error)

	// RunLinkForm은 연결할 환경 종류와 대상을 입력받는다.
	// condaEnvs가 비어있으면 이름을 직접 입력받는다.
	RunLinkForm(condaEnvs []string) (*LinkInput, error)
}
