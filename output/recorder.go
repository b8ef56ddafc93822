// 路口统计输出，按固定步数间隔将统计快照批量写入MongoDB
package output

import (
	"context"

	"git.fiblab.net/general/common/v2/mongoutil"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bufferSize = 100 // 缓存文档数达到该值时写入数据库
)

// Document 单条统计记录
type Document struct {
	Job            string            `bson:"job"`
	Step           int32             `bson:"step"`
	T              float64           `bson:"t"`
	Waiting        int               `bson:"waiting"`
	InIntersection int               `bson:"in_intersection"`
	Departed       int               `bson:"departed"`
	TotalProcessed int               `bson:"total_processed"`
	Lights         map[string]string `bson:"lights"` // 进口方位 -> 灯色
}

// NewDocument 根据统计快照与灯色构造统计记录
func NewDocument(job string, step int32, t float64, stats junction.Stats, lights [entity.DirectionCount]mapv2.LightState) Document {
	doc := Document{
		Job:            job,
		Step:           step,
		T:              t,
		Waiting:        stats.Waiting,
		InIntersection: stats.InIntersection,
		Departed:       stats.Departed,
		TotalProcessed: stats.TotalProcessed,
		Lights:         make(map[string]string, entity.DirectionCount),
	}
	for d, s := range lights {
		doc.Lights[entity.Direction(d).String()] = s.String()
	}
	return doc
}

// collection 统计记录写入目标，由*mongo.Collection实现
type collection interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// Recorder 统计输出器
// 功能：每interval步记录一次统计快照，缓存后批量写入
// 说明：未配置数据库地址时所有操作为空操作
type Recorder struct {
	job      string
	interval int32

	client *mongo.Client
	coll   collection
	buffer []interface{}
}

// New 创建统计输出器
// 参数：job-任务名，c-输出配置（已补全默认值）
// 返回：统计输出器，c.URI为空时不输出
func New(job string, c config.Output) *Recorder {
	if c.URI == "" {
		log.Info("output disabled")
		return newRecorder(job, c.Interval, nil)
	}
	client := mongoutil.NewClient(c.URI)
	r := newRecorder(job, c.Interval, mongoutil.GetMongoColl(client, c))
	r.client = client
	log.Infof("output to %s.%s every %d steps", c.DB, c.Col, c.Interval)
	return r
}

func newRecorder(job string, interval int32, coll collection) *Recorder {
	return &Recorder{
		job:      job,
		interval: interval,
		coll:     coll,
		buffer:   make([]interface{}, 0, bufferSize),
	}
}

// Enabled 是否输出
func (r *Recorder) Enabled() bool {
	return r.coll != nil
}

// Record 记录一步的统计快照
// 功能：step为interval整数倍时加入缓存，缓存满时写入数据库
func (r *Recorder) Record(step int32, t float64, stats junction.Stats, lights [entity.DirectionCount]mapv2.LightState) {
	if !r.Enabled() || step%r.interval != 0 {
		return
	}
	r.buffer = append(r.buffer, NewDocument(r.job, step, t, stats, lights))
	if len(r.buffer) >= bufferSize {
		r.flush()
	}
}

// flush 将缓存写入数据库
// 说明：写入失败只记录错误并丢弃缓存，不中断模拟
func (r *Recorder) flush() {
	if len(r.buffer) == 0 {
		return
	}
	if _, err := r.coll.InsertMany(context.Background(), r.buffer); err != nil {
		log.Errorf("failed to insert %d documents: %v", len(r.buffer), err)
	}
	r.buffer = make([]interface{}, 0, bufferSize)
}

// Close 写入剩余缓存并断开数据库连接
func (r *Recorder) Close() {
	if !r.Enabled() {
		return
	}
	r.flush()
	if r.client != nil {
		if err := r.client.Disconnect(context.Background()); err != nil {
			log.Errorf("failed to disconnect: %v", err)
		}
	}
}
