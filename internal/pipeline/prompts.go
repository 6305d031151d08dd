package pipeline

// graphPromptHeader frames a knowledge-point request so the model answers
// with a bare GraphViz DOT document and nothing else.
const graphPromptHeader = `请根据以下规范，为指定历史知识点生成 GraphViz DOT 文件，用于构建紧凑、美观、统一的小型知识图谱。

【全局布局要求】
- 使用 digraph，方向 rankdir=LR（从左到右）
- 背景要透明
- 图整体紧凑：nodesep=0.28，ranksep=0.45
- 使用 splines=true
- 全局字体：fontname="SimSun"，fontsize=14，minfontsize=14

【节点（node）样式】
- shape=box，style="rounded,filled"
- fillcolor="#FAFAFA"，color="#666666"
- fontname="SimSun"，fontsize=14
- margin="0.05,0.04"（极小内边距）
- 中心节点可以包含时间/身份说明
- 其他节点只写名称，不加任何解释

【节点前缀图标（纯 Unicode 黑白线条）】
只在“人物 / 组织 / 事件”节点前加图标：
- 人物（Person）：♙
- 组织（Organization）：⌂
- 事件（Event）：⬟
  其他类型（如思想、制度、条约等）不加图标。

【关系线（edge）样式】
- style=dashed（虚线）
- fontsize=14，labelfontsize=14（强制与节点一致）
- color="#444444"，arrowsize=0.6
- labeldistance=1.2
- 关系线标签长度为 2–10 字，要求简洁、自然、表达准确
  例如：提出、推动、参与、领导、奠基、促成、制定、产生影响等

【cluster 区域（动态自动分组）】
- 区域数量不固定，根据知识点关系自动生成 2–4 个组合合理的区域
- 可能的分组方式示例（根据知识点类型自动调整）：
  对事件：前因 / 背景；参与力量；直接结果；深远影响
  对人物：相关组织；参与事件；提出思想；历史影响
  对思想或制度：形成背景；提出者；影响事件；制度化影响
- cluster 样式：
  style="rounded,filled"
  color="#D0D0D0"
  背景色从以下淡色中任选（可重复）：#EEF8FF / #F2FFF2 / #F9F5E6 / #F4F0FF
- cluster 内部更紧凑：ranksep=0.25，nodesep=0.18
- cluster 标签简短明确（例：“参与的事件”“相关组织”“历史影响”）

【内容选择要求】
- 只包括与中心知识点具有直接关系的节点
- 关系必须符合历史逻辑（如创造、提出、参与、影响、促成、制定等）
- 图要紧凑、清晰、美观，适合在小图中呈现

【输出要求】
- 只输出 DOT 文件内容，不加任何解释、注释或额外文字
- 不使用代码块包裹 DOT，直接输出 DOT 纯文本

【任务】
请根据以上规范，为以下知识点生成 GraphViz DOT 文件：
`

// GraphPrompt returns the full DOT-generation prompt for one knowledge point.
func GraphPrompt(knowledgePoint string) string {
	return graphPromptHeader + knowledgePoint
}

// atlasSystemPrompt carries the atlas image index table used to pick map
// references for a geography card. The model must answer with a JSON array
// of reference objects.
const atlasSystemPrompt = `你是一名初中地理教师。我将提供给你一张知识卡片的内容，你需要根据我给出的《地图册图片索引表》为该卡片挑选出相关的图片。

下面是markdown格式的《地图册图片索引表》：

| 章节标题 | 图片名称 | 页码 | 位置 |
| 第一章 从世界看中国 · 第一节 疆域 | 中国在地球上的位置示意 | 3 | 左上 |
| 第一章 从世界看中国 · 第一节 疆域 | 中国在北半球的位置示意 | 3 | 上中 |
| 第一章 从世界看中国 · 第一节 疆域 | 中国在东半球的位置示意 | 3 | 右上 |
| 第一章 从世界看中国 · 第一节 疆域 | 中国、俄罗斯、巴西纬度位置比较图 | 3 | 左下 |
| 第一章 从世界看中国 · 第一节 疆域 | 中国与哈萨克斯坦陆地位置比较图 | 3 | 下中 |
| 第一章 从世界看中国 · 第一节 疆域 | 中国疆域和邻国示意图 | 3 | 右下 |
| 第一章 从世界看中国 · 第一节 疆域 | 中国省级行政区分布示意图 | 4 | 左页全图 |
| 第一章 从世界看中国 · 第一节 疆域 | 中国各省人口柱状图 | 4 | 右侧纵向图 |
| 第一章 从世界看中国 · 第二节 人口 | 中国人口迁移流向示意图 | 5 | 左上 |
| 第一章 从世界看中国 · 第二节 人口 | 中国人口增长趋势图（1953–2022） | 5 | 右上 |
| 第一章 从世界看中国 · 第二节 人口 | 中国人口年龄结构变化图（历次普查） | 5 | 上中 |
| 第一章 从世界看中国 · 第二节 人口 | 中国县级人口密度图 | 5 | 左下 |
| 第一章 从世界看中国 · 第二节 人口 | 人口结构情景图（人口变化） | 5 | 下中 |
| 第一章 从世界看中国 · 第二节 人口 | 中国各省人口密度图 | 6 | 左上 |
| 第一章 从世界看中国 · 第二节 人口 | 中国县级人口密度点图（含胡焕庸线） | 6 | 右上 |
| 第一章 从世界看中国 · 第二节 人口 | 中国人口地理分界线示意（胡焕庸线） | 6 | 上中 |
| 第一章 从世界看中国 · 第二节 人口 | 各省城镇人口数量柱状图 | 6 | 左下 |
| 第一章 从世界看中国 · 第二节 人口 | 中国城镇化进程折线图 | 6 | 下中 |
| 第一章 从世界看中国 · 第二节 人口 | 人口分布东密西疏示意图（饼图） | 6 | 右下 |
| 第一章 从世界看中国 · 第三节 民族 | 云南主要民族分布图 | 7 | 左上 |
| 第一章 从世界看中国 · 第三节 民族 | 云南民族人口数量柱状图 | 7 | 下中 |
| 第一章 从世界看中国 · 第三节 民族 | 云南民族人口比重饼图 | 7 | 右上 |
| 第一章 从世界看中国 · 第三节 民族 | 中国少数民族人口数量排序图 | 7 | 右下 |
| 第一章 从世界看中国 · 第三节 民族 | 民族文化照片（火把节等） | 7 | 左下 |
| 第二章 中国的自然环境 · 第一节 地形 | 中国地势三级阶梯示意图 | 8 | 上中 |
| 第二章 中国的自然环境 · 第一节 地形 | 30°N 地形剖面图 | 8 | 下中 |
| 第二章 中国的自然环境 · 第一节 地形 | 中国地形图（主要山脉走向） | 9 | 全页大图 |
| 第二章 中国的自然环境 · 第二节 气候 | 中国1月平均气温分布图 | 10 | 左上 |
| 第二章 中国的自然环境 · 第二节 气候 | 中国7月平均气温分布图 | 10 | 右上 |
| 第二章 中国的自然环境 · 第二节 气候 | 三城市气温对比折线图（北京/广州/哈尔滨） | 10 | 下中 |
| 第二章 中国的自然环境 · 第二节 气候 | 中国年降水量分布图 | 11 | 左上 |
| 第二章 中国的自然环境 · 第二节 气候 | 中国干湿地区划图 | 11 | 右上 |
| 第二章 中国的自然环境 · 第二节 气候 | 典型干湿地区景观照片 | 11 | 下中 |
| 第二章 中国的自然环境 · 第二节 气候 | 中国气候类型分布图 | 12 | 左上 |
| 第二章 中国的自然环境 · 第二节 气候 | 中国温度带划分图 | 12 | 右上 |
| 第二章 中国的自然环境 · 第二节 气候 | 气候类型典型景观照片 | 12 | 下中 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 中国主要河流分布图 | 13 | 左上 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 中国主要湖泊分布图 | 13 | 右上 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 内流区/外流区面积比较示意 | 13 | 下中 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 长江流域示意图 | 14 | 左上 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 长江干流地形剖面图 | 14 | 上中 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 长江开发与治理示意图 | 14 | 下中 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 黄河流域分布图 | 15 | 左上 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 黄河干流剖面图 | 15 | 上中 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 黄河水资源分布图 | 15 | 右上 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 黄河中上游治理示意图 | 15 | 左下 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 黄河下游治理示意图（束水攻沙） | 15 | 下中 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 黄河下游历史河道变迁图 | 16 | 上中 |
| 第二章 中国的自然环境 · 第三节 河流与湖泊 | 堤防结构示意（束水攻沙） | 16 | 下中 |
| 第三章 中国的自然资源 · 土地资源 | 世界陆地面积对比图 | 17 | 左上 |
| 第三章 中国的自然资源 · 土地资源 | 世界耕地分布图 | 17 | 上中 |
| 第三章 中国的自然资源 · 土地资源 | 世界人均耕地面积比较 | 17 | 右上 |
| 第三章 中国的自然资源 · 土地资源 | 中国土地利用类型分布图 | 17 | 左下 |
| 第三章 中国的自然资源 · 土地资源 | 中国耕地与梯田分布图 | 17 | 下中 |
| 第三章 中国的自然资源 · 土地资源 | 山水林田湖草沙一体化治理示意图 | 17 | 右下 |
| 第三章 中国的自然资源 · 水资源 | 中国水资源分布图 | 18 | 左上 |
| 第三章 中国的自然资源 · 水资源 | 径流丰枯带分布图 | 18 | 右上 |
| 第三章 中国的自然资源 · 水资源 | 用水量变化折线图 | 18 | 左下 |
| 第三章 中国的自然资源 · 水资源 | 省级人均水资源与用水结构图 | 18 | 右下 |
| 第三章 中国的自然资源 · 水资源 | 生活污水处理利用示意图 | 19 | 上中 |
| 第三章 中国的自然资源 · 水资源 | 雨水收集利用示意图 | 19 | 下中 |
| 第三章 中国的自然资源 · 矿产资源 | 中国主要矿产资源分布图 | 20 | 左上 |
| 第三章 中国的自然资源 · 矿产资源 | 中国矿产储量/产量/消费量比较 | 20 | 上中 |
| 第三章 中国的自然资源 · 矿产资源 | 中国矿产进口来源分布图 | 20 | 右上 |
| 第三章 中国的自然资源 · 矿产资源 | 国家石油储备与管道分布图 | 20 | 下中 |
| 第三章 中国的自然资源 · 海洋资源 | 中国近海资源分布图 | 21 | 左上 |
| 第三章 中国的自然资源 · 海洋资源 | 台湾盐场示意图 | 21 | 左下 |
| 第三章 中国的自然资源 · 海洋资源 | 中国沿海主要港口与航线分布图 | 21 | 右上 |
| 第三章 中国的自然资源 · 海洋资源 | 海洋空间开发示意图 | 21 | 右下 |
| 跨学科主题：世界灌溉工程遗产 | 中国灌溉工程遗产分布图 | 22 | 上中 |
| 跨学科主题：世界灌溉工程遗产 | 都江堰灌区示意图 | 22 | 下中 |
| 第四章 中国的经济发展 · 农业 | 中国主要经济作物分布图 | 23 | 左上 |
| 第四章 中国的经济发展 · 农业 | 中国林区和主要牧区示意图 | 23 | 右上 |
| 第第四章 中国的经济发展 · 农业 | 农作物水热条件差异示意图 | 23 | 下中 |
| 第四章 中国的经济发展 · 农业 | 国家现代农业产业园分布图 | 24 | 左上 |
| 第四章 中国的经济发展 · 农业 | 无锡惠山区农业产业案例布局图 | 24 | 下中 |
| 第四章 中国的经济发展 · 工业 | 各省工业增加值图 | 24 | 右上 |
| 第第四章 中国的经济发展 · 工业 | 制造业创新中心分布图 | 24 | 右下 |
| 第第四章 中国的经济发展 · 工业 | 东数西算工程示意图 | 25 | 左上 |
| 第第四章 中国的经济发展 · 工业 | 清洁能源利用地图 | 25 | 上中 |
| 第第四章 中国的经济发展 · 工业 | 二氧化碳排放强度变化折线图 | 25 | 右上 |
| 第四章 中国的经济发展 · 交通运输 | 中国铁路网分布图 | 25 | 下中 |
| 第四章 中国的经济发展 · 交通运输 | 中国航空线与内河航运图 | 26 | 上中 |
| 第四章 中国的经济发展 · 交通运输 | 村庄交通路线示意图 | 26 | 左下 |
| 第四章 中国的经济发展 · 交通运输 | 国际航线与边境通道分布图 | 26 | 右下 |
| 第五章 建设美丽中国 · 自然灾害与防灾减灾 | 中国重大自然灾害分布图 | 27 | 上中 |
| 第五章 建设美丽中国 · 自然灾害与防灾减灾 | 多灾种预警系统示意图 | 27 | 下中 |
| 第五章 建设美丽中国 · 环境保护与发展 | 重点生态修复工程分布图 | 28 | 左上 |
| 第五章 建设美丽中国 · 环境保护与发展 | 森林覆盖率变化折线图 | 28 | 上中 |
| 第五章 建设美丽中国 · 环境保护与发展 | 酸雨分布与空气质量示意图 | 28 | 右上 |
| 第五章 建设美丽中国 · 环境保护与发展 | 清洁能源基地布局图 | 28 | 下中 |

---

任务要求如下：

1. 从索引表中自动选择 **1～3 张最符合卡片核心知识点** 的地图。
2. 输出格式必须是 JSON 数组。
3. 每个元素必须使用以下固定结构（map_file 固定为 "geo_8_1"）：

{
  "map_file": "geo_8_1",
  "name": "<图片名称>",
  "page": <页码数字>,
  "position": "<图片在该页的位置>"
}

4. 严格只输出 JSON，不要解释过程，不要加入多余文字。
5. 如果挑出多张图片，这些图片跟内容的相关度应基本一致，否则就只输出相关性最高的那一张图片。
`

// summaryPromptHeader asks for the core knowledge points of one textbook
// chapter as a typed JSON array.
const summaryPromptHeader = `请从我提供的教材章节内容中，自动抽取该章节的“核心知识点列表”。要求如下：

1. 输出格式必须是一个 JSON 数组，每个元素包含：
   - "name": 知识点名称
   - "type": 类型（必须是以下三类之一：“事件”“人物与组织”“历史因素”）

2. 只抽取真正构成知识体系的核心知识点，必须符合以下标准：
   【事件】—— 发生在明确时间地点、有明确过程的历史事件；例如战争、条约签订、改革、运动、政变。
   【人物与组织】—— 本章出现的明确历史人物或成规模、具有历史作用的组织、集团、派别。
   【历史因素】—— 具有清晰概念、贯穿性或推动性影响的思想、政策、制度或历史现象，例如“洋务运动”“列强瓜分中国狂潮”“清末新政”“门户开放政策”。

3. 不要列入以下内容：
   - 章节中贯穿出现但不是独立“知识点”的描述性句子，如“民族危机加剧”“半殖民地化加深”“自强求富目标”等。
   - 章节总结性的评价性结论，例如“中国开始沦为半殖民地半封建社会”“统治危机加剧”。
   - 具体人物的行为细节、课后活动问题、材料阅读、插图说明。
   - 模糊或过宽泛的抽象概念，除非教材明确以专有名词形式出现。

4. 确保知识点名称必须与教材中的标准表述一致，不得创造新概念。

5. 不要输出解释、说明、推理过程，只输出最终的 JSON 数组。

下面是章节内容，请抽取知识点列表：
`

// SummaryPrompt returns the knowledge-point extraction prompt for a chapter
// keyword.
func SummaryPrompt(keyword string) string {
	return summaryPromptHeader + keyword
}

// MapRefPrompt combines the atlas index with one card's content.
func MapRefPrompt(cardInfo string) string {
	return atlasSystemPrompt + "\n\n请根据下面的卡片内容，从《地图册图片索引表》挑出密切相关的图片，自动生成关联图片数组：\n[卡片内容]\n    " + cardInfo
}
