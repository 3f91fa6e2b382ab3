package model

// Worksheet names inside the 조합원상담관리 spreadsheet.
const (
	DocumentTitle   = "조합원상담관리"
	WSUsers         = "사용자관리"
	WSCustomers     = "고객정보"
	WSConsultations = "상담이력"
	WSFinance       = "금융이력"
	WSAuditLog      = "사용자로그"
)

// Column headers shared across worksheets.
const (
	ColCustomerID = "고객번호"
	ColName       = "이름"
	ColContact    = "연락처"
	ColTags       = "태그"
)

// 고객정보 columns.
const (
	ColAddress      = "주소"
	ColBirthDate    = "생년월일"
	ColOccupation   = "직업_사업장"
	ColFamily       = "가족관계"
	ColAcquaintance = "지인관계"
	ColMemberNo     = "조합원번호"
	ColCapital      = "출자금"
)

// 상담이력 columns.
const (
	ColRecordID     = "기록ID"
	ColDate         = "날짜"
	ColWriter       = "작성자"
	ColCustomerName = "고객명"
	ColRawText      = "원본내용"
	ColPolished     = "정제된내용"
	ColSummary      = "AI요약"
	ColDepartment   = "조치부서"
	ColStatus       = "조치상태"
	ColRequest      = "요청사항"
	ColResult       = "조치결과"
)

// 사용자관리 columns.
const (
	ColUserID   = "아이디"
	ColPassword = "비밀번호"
)

// 금융이력 columns.
const (
	ColPeriod  = "기준년월"
	ColLoan    = "여신금액"
	ColDeposit = "수신금액"
)

// Consultation 조치상태 values. A record only ever moves 조치필요 -> 완료.
const (
	StatusDone         = "완료"
	StatusActionNeeded = "조치필요"
)

// Departments a follow-up request can be routed to.
var Departments = []string{"사업과", "지도과", "유통과", "금융과"}

// Audit log actions.
const (
	ActionLogin      = "로그인"
	ActionLogout     = "로그아웃"
	ActionView       = "조회"
	ActionUpdateInfo = "정보수정"
	ActionSaveNote   = "상담저장"
	ActionComplete   = "조치완료"
)
