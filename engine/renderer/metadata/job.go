package metadata

/** Definition for the work of a job. Runs on a worker goroutine. */
type JobRun func() (interface{}, error)

/** Definition for completion of a job. Runs on the main thread. */
type JobOnComplete func(result interface{})

/** Definition for failure of a job. Runs on the main thread. */
type JobOnFailure func(err error)

/** @brief Describes a type of job */
type JobType int

const (
	/**
	 * @brief A general job that does not have any specific thread requirements.
	 */
	JOB_TYPE_GENERAL JobType = 0x02
	/**
	 * @brief A resource loading job, such as parsing a model from disk.
	 */
	JOB_TYPE_RESOURCE_LOAD JobType = 0x04
)

/**
 * @brief Describes a job to be run. Run must not touch GPU resources; the
 * callbacks may, since they are invoked from JobSystem.Update.
 */
type JobTask struct {
	/** @brief The type of job. */
	JobType JobType
	/** @brief Invoked on a worker when the job starts. Required. */
	Run JobRun
	/** @brief Invoked with the result when Run succeeds. Optional. */
	OnComplete JobOnComplete
	/** @brief Invoked with the error when Run fails. Optional. */
	OnFailure JobOnFailure
}

// The max number of job results that can be stored at once.
const MAX_JOB_RESULTS int = 512
