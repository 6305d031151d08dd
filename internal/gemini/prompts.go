package gemini

import (
	"fmt"
	"strings"
)

// Subject codes for the exam-figure prompt templates.
const (
	SubjectBiology = "B"
	SubjectHistory = "H"
	SubjectPhysics = "P"
)

// historyPromptTip frames generated figures for history teaching material.
const historyPromptTip = `
请生成一张用于中学/高中历史知识点讲解或试卷题目的黑白配图。
图片应以服务历史理解和试题情境构建为目的，构图简洁、信息指向明确，线条清晰、对比适中，在缩小为试卷或教材版面尺寸后仍保持清楚可辨。图片不追求艺术表现，避免装饰性设计。
人物、服饰、发型、器物、建筑及整体场景必须严格符合对应历史时期的真实背景，时代特征清晰，不得出现任何现代元素、跨时代物品或模糊时代的混合特征。人物身份、社会等级或职业特征应通过形象细节自然体现，但不夸张、不符号化。
背景应尽量简化或适度虚化，仅保留有助于理解历史事件、制度、社会结构或生产生活方式的必要环境信息，避免无关细节干扰学生对关键信息的判断。
若配图用于历史事件类知识点或试题情境，应表现事件发生的典型场景、关键行为或人物之间的空间关系，但不得直接呈现结论性结果或明显指向答案的细节。
若配图用于制度、社会生活、经济形态或文化现象类知识点，应通过场所布局、人物互动方式、器物特征等体现时代特征与制度内涵，而不使用文字标注、箭头或象征性符号进行解释。
若配图用于选择题、材料分析题等试卷题目，应合理控制信息密度，仅提供理解情境所需的关键线索，避免因画面过于直观而降低试题区分度。
图片整体风格应严肃、客观、规范、易识别，符合考试与教学用图标准，便于学生进行历史情境识别、比较与分析。
`

// physicsPromptTip frames generated figures for physics teaching material.
const physicsPromptTip = `
请生成一张用于中学/高中物理知识点讲解或试卷题目的黑白配图。
图片应以服务物理概念理解、规律呈现或试题情境构建为目的，构图简洁、信息指向明确，线条清晰、比例准确，在缩小为试卷或教材版面尺寸后仍保持清楚可辨。图片不追求艺术表现，避免装饰性设计。
图中所呈现的物理对象、装置结构、空间关系和运动状态必须符合物理规律与实际条件，不得出现违背基本物理原理或引起概念混淆的设计。实验装置应结构清楚、部件位置合理，但不过度复杂。
背景应尽量简化或留白，仅保留与物理情境相关的必要环境（如水平面、支架、导轨、光路环境等），避免无关元素干扰学生对关键物理量和关系的判断。
若配图用于物理规律或实验类知识点，应清楚呈现实验情境或典型模型，突出研究对象及其相互作用关系，但不直接给出结论、不标注公式或数值结果。
若配图用于力学、电磁学、光学、热学或近代物理等概念与模型，应体现理想化条件（如光滑、轻质、匀强、电阻忽略等）但不以文字说明的方式显性标注，避免暗示解题路径。
若配图用于选择题、计算题或综合题的情境配图，应合理控制信息量，仅呈现构建物理模型所必需的条件，避免通过画面直接暴露解题方法或结论，保持试题的区分度。
图片整体风格应规范、严谨、客观、易识别，符合考试与教学用图标准，便于学生进行物理情境建模、变量分析与规律推断。
`

// biologyPromptTip frames generated figures for biology teaching material.
const biologyPromptTip = `
请生成一张用于中学/高中生物知识点讲解或试卷题目的黑白配图。
图片应以服务生物学概念理解、结构功能认知或试题情境构建为目的，构图简洁、信息指向明确，线条清晰、比例合理，在缩小为试卷或教材版面尺寸后仍保持清楚可辨。图片不追求艺术表现，避免装饰性设计。
图中所呈现的生物结构、器官、组织、细胞形态及其相对位置必须符合生物学事实与教材规范，不得出现结构错误、功能混淆或不符合比例关系的表现。示意图应准确反映典型特征，而非个体差异。
背景应尽量简化或留白，仅保留与生物学情境相关的必要环境或结构层次，避免无关细节干扰学生对关键结构、层级关系或功能联系的判断。
若配图用于结构与功能类知识点（如器官结构、细胞结构、生理过程），应突出关键结构及其相互关系，但不直接给出功能结论、不使用文字标注解释。
若配图用于遗传、进化、生态或调节等过程性知识点，应通过阶段性场景、结构变化或相互作用体现过程特点，但避免用箭头、编号或符号直接暗示结论。
若配图用于选择题、实验设计题或综合分析题的情境配图，应合理控制信息密度，仅呈现理解生物学情境或构建分析思路所必需的条件，避免通过画面直接暴露答案或分析路径。
图片整体风格应规范、科学、客观、易识别，符合考试与教学用图标准，便于学生进行结构识别、过程理解与科学推理。
`

// subjectPrompts maps subject codes to their template text.
var subjectPrompts = map[string]string{
	SubjectBiology: biologyPromptTip,
	SubjectHistory: historyPromptTip,
	SubjectPhysics: physicsPromptTip,
}

// subjectKeywords maps subject codes to title keywords used by GuessSubject.
var subjectKeywords = map[string][]string{
	SubjectBiology: {"生物", "biology", "bio "},
	SubjectHistory: {"历史", "史纲", "history", "hist "},
	SubjectPhysics: {"物理", "physics", "phys "},
}

// Subjects returns the supported subject codes, for usage strings.
func Subjects() []string {
	return []string{SubjectBiology, SubjectHistory, SubjectPhysics}
}

// GuessSubject guesses a subject code from a deck or quiz title by keyword
// match (ASCII keywords case-insensitive). Returns "" when undecidable.
func GuessSubject(title string) string {
	if title == "" {
		return ""
	}
	lower := strings.ToLower(title)
	for _, code := range Subjects() {
		for _, kw := range subjectKeywords[code] {
			if strings.Contains(title, kw) || strings.Contains(lower, strings.ToLower(kw)) {
				return code
			}
		}
	}
	return ""
}

// BuildPrompt assembles the generation prompt. subject may be empty, in
// which case the description is used as-is; otherwise it selects one of the
// exam-figure templates. Longer subject strings are reduced to their first
// character, so "P", "p" and "Physics" all select the physics template.
func BuildPrompt(description, subject string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("image description is empty")
	}
	if strings.TrimSpace(subject) == "" {
		return description, nil
	}

	key := strings.ToUpper(strings.TrimSpace(subject)[:1])
	tip, ok := subjectPrompts[key]
	if !ok {
		return "", fmt.Errorf("unsupported subject %q, expected one of %s",
			subject, strings.Join(Subjects(), "/"))
	}
	return strings.TrimSpace(tip) + "\n\n图片内容如下：" + description, nil
}
